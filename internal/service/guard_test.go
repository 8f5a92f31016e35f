package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gerritforge/gemini-vault/internal/errs"
)

func TestRequireSelf_Match(t *testing.T) {
	require.NoError(t, RequireSelf(42, 42))
}

func TestRequireSelf_Mismatch(t *testing.T) {
	err := RequireSelf(7, 42)
	require.ErrorIs(t, err, errs.ErrForbidden)

	err = RequireSelf(42, 7)
	require.ErrorIs(t, err, errs.ErrForbidden)
}
