// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gerritforge/gemini-vault/internal/model"
)

// ExternalIDStore provides access to the host framework's identity records.
type ExternalIDStore interface {
	// ByAccount returns all external-id records owned by the account.
	ByAccount(ctx context.Context, accountID model.AccountID) ([]model.ExternalID, error)

	// Update runs fn inside one atomic per-account mutation. All record
	// changes made through the transaction commit together or not at all,
	// and concurrent Updates for the same account are serialized by the
	// store, across process instances. desc is a short human-readable
	// reason recorded with the mutation.
	Update(ctx context.Context, desc string, accountID model.AccountID, fn func(ctx context.Context, tx ExternalIDTx) error) error
}

// ExternalIDTx is the mutation handle passed to Update callbacks.
type ExternalIDTx interface {
	// ByAccount lists the account's records as seen inside the transaction.
	ByAccount(ctx context.Context, accountID model.AccountID) ([]model.ExternalID, error)

	// DeleteExternalID removes a record. Deleting a record that does not
	// exist is not an error.
	DeleteExternalID(ctx context.Context, e model.ExternalID) error

	// AddExternalID inserts a record. A duplicate key yields ErrAlreadyExists.
	AddExternalID(ctx context.Context, e model.ExternalID) error
}
