package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/gerritforge/gemini-vault/internal/errs"
	"github.com/gerritforge/gemini-vault/internal/model"
	"github.com/gerritforge/gemini-vault/internal/repository"
)

var pgconnUniqueViolation = pgconn.PgError{Code: "23505"}

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestExtIDRepo_ByAccount_OK(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewExtIDRepo(db)

	mock.ExpectQuery(`SELECT scheme, id, account_id`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"scheme", "id", "account_id"}).
			AddRow("external", "gemini_42_QUJD", int64(42)).
			AddRow("username", "jdoe", int64(42)))

	recs, err := r.ByAccount(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, model.ExternalID{Scheme: "external", ID: "gemini_42_QUJD", AccountID: 42}, recs[0])
}

func TestExtIDRepo_ByAccount_Empty(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewExtIDRepo(db)

	mock.ExpectQuery(`SELECT scheme, id, account_id`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"scheme", "id", "account_id"}))

	recs, err := r.ByAccount(context.Background(), 7)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestExtIDRepo_Update_CommitsMutations(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewExtIDRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts \(id\) VALUES \(\$1\) ON CONFLICT \(id\) DO NOTHING`).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(`SELECT ver FROM accounts WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"ver"}).AddRow(int64(3)))
	mock.ExpectExec(`DELETE FROM external_ids WHERE scheme=\$1 AND id=\$2`).
		WithArgs("external", "gemini_42_OLD").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO external_ids \(scheme, id, account_id\) VALUES \(\$1,\$2,\$3\)`).
		WithArgs("external", "gemini_42_NEW", int64(42)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`UPDATE accounts SET ver=ver\+1, last_update=\$2, updated_at=now\(\) WHERE id=\$1`).
		WithArgs(int64(42), "replace gemini token").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := r.Update(context.Background(), "replace gemini token", 42,
		func(ctx context.Context, tx repository.ExternalIDTx) error {
			if err := tx.DeleteExternalID(ctx, model.ExternalID{Scheme: "external", ID: "gemini_42_OLD", AccountID: 42}); err != nil {
				return err
			}
			return tx.AddExternalID(ctx, model.ExternalID{Scheme: "external", ID: "gemini_42_NEW", AccountID: 42})
		})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExtIDRepo_Update_RollsBackOnFnError(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewExtIDRepo(db)

	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`SELECT ver FROM accounts WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"ver"}).AddRow(int64(0)))
	mock.ExpectRollback()

	err := r.Update(context.Background(), "noop", 42,
		func(ctx context.Context, tx repository.ExternalIDTx) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExtIDRepo_Update_DuplicateInsert(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewExtIDRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(`SELECT ver FROM accounts WHERE id=\$1 FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"ver"}).AddRow(int64(1)))
	mock.ExpectExec(`INSERT INTO external_ids`).
		WithArgs("external", "gemini_42_DUP", int64(42)).
		WillReturnError(&pgconnUniqueViolation)
	mock.ExpectRollback()

	err := r.Update(context.Background(), "dup", 42,
		func(ctx context.Context, tx repository.ExternalIDTx) error {
			return tx.AddExternalID(ctx, model.ExternalID{Scheme: "external", ID: "gemini_42_DUP", AccountID: 42})
		})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}
