package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/gerritforge/gemini-vault/internal/model"
)

const callerIDKey = "vault.callerID"

// WithCallerID stores the authenticated caller's account id on the request.
func WithCallerID(c echo.Context, id model.AccountID) { c.Set(callerIDKey, id) }

// CallerID fetches the authenticated caller's account id from the request.
func CallerID(c echo.Context) (model.AccountID, bool) {
	id, ok := c.Get(callerIDKey).(model.AccountID)
	return id, ok
}

// callerFromBearer extracts "Authorization: Bearer <JWT>", verifies HS256,
// and returns the subject as an account id.
func callerFromBearer(c echo.Context, signKey []byte) (model.AccountID, error) {
	h := c.Request().Header.Get("Authorization")
	const scheme = "Bearer "
	if !strings.HasPrefix(h, scheme) {
		return 0, errors.New("missing bearer token")
	}
	tok := strings.TrimSpace(h[len(scheme):])

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return signKey, nil
	})
	if err != nil || !parsed.Valid {
		return 0, errors.New("invalid token")
	}

	v := jwt.NewValidator(jwt.WithLeeway(30 * time.Second))
	if err := v.Validate(&claims); err != nil {
		return 0, errors.New("token expired or not valid yet")
	}

	id, err := model.ParseAccountID(claims.Subject)
	if err != nil {
		return 0, errors.New("bad subject")
	}
	return id, nil
}
