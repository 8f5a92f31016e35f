// Package extid encodes and parses the external-id keys that carry encrypted
// Gemini tokens.
//
// Key format: gemini_<accountID>_<ciphertext>. The ciphertext segment comes
// from the token codec, whose base64 alphabet contains no underscore, so
// splitting on the last underscore is unambiguous.
package extid

import (
	"fmt"
	"strings"

	"github.com/gerritforge/gemini-vault/internal/errs"
	"github.com/gerritforge/gemini-vault/internal/model"
)

// SchemeExternal is the fixed scheme for token records in the identity store.
const SchemeExternal = "external"

const (
	namespace = "gemini"
	delimiter = '_'
)

// Prefix returns the per-account namespace prefix gemini_<accountID>_.
func Prefix(accountID model.AccountID) string {
	return fmt.Sprintf("%s_%s_", namespace, accountID)
}

// BuildKey returns the full external-id key for an account's token.
func BuildKey(accountID model.AccountID, ciphertext string) string {
	return Prefix(accountID) + ciphertext
}

// SplitKey splits a stored key at the last delimiter into the prefix
// (delimiter included) and the ciphertext segment. It fails when the key is
// not in the gemini namespace, has no delimiter after it, or carries an empty
// ciphertext segment.
func SplitKey(key string) (prefix, ciphertext string, err error) {
	if !strings.HasPrefix(key, namespace+string(delimiter)) {
		return "", "", fmt.Errorf("%w: %q outside %s namespace", errs.ErrMalformedKey, key, namespace)
	}
	i := strings.LastIndexByte(key, delimiter)
	if i < len(namespace)+1 {
		return "", "", fmt.Errorf("%w: %q has no account delimiter", errs.ErrMalformedKey, key)
	}
	if i == len(key)-1 {
		return "", "", fmt.Errorf("%w: %q has empty ciphertext segment", errs.ErrMalformedKey, key)
	}
	return key[:i+1], key[i+1:], nil
}
