package extid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gerritforge/gemini-vault/internal/errs"
)

func TestPrefix(t *testing.T) {
	require.Equal(t, "gemini_42_", Prefix(42))
	require.Equal(t, "gemini_7_", Prefix(7))
}

func TestPrefix_NoCrossAccountOverlap(t *testing.T) {
	// gemini_4_ must never be a prefix of gemini_42_'s keys and vice versa.
	require.False(t, len(Prefix(4)) <= len("gemini_42_") &&
		"gemini_42_"[:len(Prefix(4))] == Prefix(4))
}

func TestBuildKey(t *testing.T) {
	require.Equal(t, "gemini_42_QUJDRA==", BuildKey(42, "QUJDRA=="))
}

func TestSplitKey_OK(t *testing.T) {
	prefix, ct, err := SplitKey("gemini_42_QUJDRA==")
	require.NoError(t, err)
	require.Equal(t, "gemini_42_", prefix)
	require.Equal(t, "QUJDRA==", ct)
}

func TestSplitKey_RoundTrip(t *testing.T) {
	key := BuildKey(1234, "bm9uY2UrY2lwaGVydGV4dA==")
	prefix, ct, err := SplitKey(key)
	require.NoError(t, err)
	require.Equal(t, Prefix(1234), prefix)
	require.Equal(t, "bm9uY2UrY2lwaGVydGV4dA==", ct)
}

func TestSplitKey_Malformed(t *testing.T) {
	cases := []string{
		"",
		"gemini",
		"gemini_",
		"gemini_42_",      // empty ciphertext
		"mailto_42_abc",   // wrong namespace
		"username:gemini", // wrong namespace
	}
	for _, key := range cases {
		_, _, err := SplitKey(key)
		require.ErrorIs(t, err, errs.ErrMalformedKey, "key=%q", key)
	}
}
