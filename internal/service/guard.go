package service

import (
	"fmt"

	"github.com/gerritforge/gemini-vault/internal/errs"
	"github.com/gerritforge/gemini-vault/internal/model"
)

// RequireSelf enforces strict self-service: the caller may only act on their
// own account. It runs before any vault operation; the vault itself performs
// no authorization checks.
func RequireSelf(caller, target model.AccountID) error {
	if caller != target {
		return fmt.Errorf("account %s may not act on account %s: %w", caller, target, errs.ErrForbidden)
	}
	return nil
}
