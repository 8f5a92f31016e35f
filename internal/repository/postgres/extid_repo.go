package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gerritforge/gemini-vault/internal/errs"
	"github.com/gerritforge/gemini-vault/internal/model"
	"github.com/gerritforge/gemini-vault/internal/repository"
)

// ExtIDRepo implements repository.ExternalIDStore using PostgreSQL.
//
// Per-account serialization: Update locks the accounts row with
// SELECT ... FOR UPDATE, so two writers for the same account are linearized
// even across process instances, while readers outside the transaction see
// the old or new record set atomically.
type ExtIDRepo struct{ db *DB }

// NewExtIDRepo constructs an external-id repository.
func NewExtIDRepo(db *DB) *ExtIDRepo { return &ExtIDRepo{db: db} }

const byAccountQuery = `
SELECT scheme, id, account_id
FROM external_ids WHERE account_id=$1
ORDER BY scheme, id`

// ByAccount returns all external-id records owned by the account.
func (r *ExtIDRepo) ByAccount(ctx context.Context, accountID model.AccountID) ([]model.ExternalID, error) {
	rows, err := r.db.Pool.Query(ctx, byAccountQuery, int64(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExternalIDs(rows)
}

// Update applies fn atomically for one account. The accounts row is created
// on first use, then locked for the duration of the transaction; the version
// counter is bumped and the description recorded on commit.
func (r *ExtIDRepo) Update(
	ctx context.Context, desc string, accountID model.AccountID,
	fn func(ctx context.Context, tx repository.ExternalIDTx) error,
) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const ensure = `INSERT INTO accounts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`
	const lock = `SELECT ver FROM accounts WHERE id=$1 FOR UPDATE`
	const bump = `UPDATE accounts SET ver=ver+1, last_update=$2, updated_at=now() WHERE id=$1`

	if _, err = tx.Exec(ctx, ensure, int64(accountID)); err != nil {
		return err
	}
	var ver int64
	if err = tx.QueryRow(ctx, lock, int64(accountID)).Scan(&ver); err != nil {
		return err
	}
	if err = fn(ctx, &extIDTx{tx: tx}); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, bump, int64(accountID), desc); err != nil {
		return err
	}
	return nil
}

// extIDTx exposes record mutations bound to one open transaction.
type extIDTx struct{ tx pgx.Tx }

func (t *extIDTx) ByAccount(ctx context.Context, accountID model.AccountID) ([]model.ExternalID, error) {
	rows, err := t.tx.Query(ctx, byAccountQuery, int64(accountID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanExternalIDs(rows)
}

func (t *extIDTx) DeleteExternalID(ctx context.Context, e model.ExternalID) error {
	const q = `DELETE FROM external_ids WHERE scheme=$1 AND id=$2`
	_, err := t.tx.Exec(ctx, q, e.Scheme, e.ID)
	return err
}

func (t *extIDTx) AddExternalID(ctx context.Context, e model.ExternalID) error {
	const q = `INSERT INTO external_ids (scheme, id, account_id) VALUES ($1,$2,$3)`
	_, err := t.tx.Exec(ctx, q, e.Scheme, e.ID, int64(e.AccountID))
	if isUniqueViolation(err) {
		return fmt.Errorf("external id %s:%s: %w", e.Scheme, e.ID, errs.ErrAlreadyExists)
	}
	return err
}

func scanExternalIDs(rows pgx.Rows) ([]model.ExternalID, error) {
	var out []model.ExternalID
	for rows.Next() {
		var (
			e       model.ExternalID
			account int64
		)
		if err := rows.Scan(&e.Scheme, &e.ID, &account); err != nil {
			return nil, err
		}
		e.AccountID = model.AccountID(account)
		out = append(out, e)
	}
	return out, rows.Err()
}
