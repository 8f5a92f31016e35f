// Package model defines domain entities used by services and repositories.
package model

import "strconv"

// AccountID identifies a user account in the host identity framework.
// Opaque to this service beyond equality and formatting.
type AccountID int64

// String renders the id the way it is embedded into external-id keys.
func (id AccountID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseAccountID parses a decimal account id.
func ParseAccountID(s string) (AccountID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return AccountID(v), nil
}

// ExternalID is a single identity record owned by an account. The Gemini
// token lives in a record whose Scheme equals extid.SchemeExternal and whose
// ID carries the encrypted token payload.
type ExternalID struct {
	Scheme    string
	ID        string
	AccountID AccountID
}
