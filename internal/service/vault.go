// Package service contains the token vault and the access guard.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gerritforge/gemini-vault/internal/crypto"
	"github.com/gerritforge/gemini-vault/internal/errs"
	"github.com/gerritforge/gemini-vault/internal/extid"
	"github.com/gerritforge/gemini-vault/internal/model"
	"github.com/gerritforge/gemini-vault/internal/repository"
)

// TokenVault defines storage and retrieval of one encrypted token per account.
type TokenVault interface {
	// SetToken encrypts and stores the token, replacing any prior one.
	SetToken(ctx context.Context, accountID model.AccountID, token string) error
	// GetToken retrieves and decrypts the account's token.
	GetToken(ctx context.Context, accountID model.AccountID) (string, error)
}

// TokenVaultImpl orchestrates the codec and key encoder against the
// external-id store. It trusts its caller: authorization happens upstream.
type TokenVaultImpl struct {
	store repository.ExternalIDStore
	codec *crypto.TokenCodec
}

// NewTokenVault constructs a TokenVault.
func NewTokenVault(store repository.ExternalIDStore, codec *crypto.TokenCodec) *TokenVaultImpl {
	return &TokenVaultImpl{store: store, codec: codec}
}

// SetToken encrypts the token and installs it as the account's single token
// record inside one atomic store mutation. Every prior record under the
// account's gemini prefix is removed first, whether one or several exist, so
// the at-most-one invariant self-heals even after earlier partial failures.
func (v *TokenVaultImpl) SetToken(ctx context.Context, accountID model.AccountID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty token", errs.ErrInvalidInput)
	}

	ciphertext, err := v.codec.Encode(token)
	if err != nil {
		return err
	}
	prefix := extid.Prefix(accountID)
	rec := model.ExternalID{
		Scheme:    extid.SchemeExternal,
		ID:        extid.BuildKey(accountID, ciphertext),
		AccountID: accountID,
	}

	desc := fmt.Sprintf("Updated Gemini token for account %s", accountID)
	return v.store.Update(ctx, desc, accountID, func(ctx context.Context, tx repository.ExternalIDTx) error {
		existing, err := tx.ByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.Scheme == extid.SchemeExternal && strings.HasPrefix(e.ID, prefix) {
				if err := tx.DeleteExternalID(ctx, e); err != nil {
					return err
				}
			}
		}
		// Idempotence against retries: a leftover record with the exact new
		// key must not fail the insert.
		if err := tx.DeleteExternalID(ctx, rec); err != nil {
			return err
		}
		return tx.AddExternalID(ctx, rec)
	})
}

// GetToken locates the account's token record by prefix and decrypts it.
func (v *TokenVaultImpl) GetToken(ctx context.Context, accountID model.AccountID) (string, error) {
	records, err := v.store.ByAccount(ctx, accountID)
	if err != nil {
		return "", err
	}

	prefix := extid.Prefix(accountID)
	var match *model.ExternalID
	for i := range records {
		if records[i].Scheme == extid.SchemeExternal && strings.HasPrefix(records[i].ID, prefix) {
			match = &records[i]
			break
		}
	}
	if match == nil {
		return "", fmt.Errorf("gemini token not set: %w", errs.ErrNotFound)
	}

	_, ciphertext, err := extid.SplitKey(match.ID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrMalformedState, err)
	}
	return v.codec.Decode(ciphertext)
}
