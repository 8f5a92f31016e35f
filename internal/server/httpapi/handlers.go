package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gerritforge/gemini-vault/internal/errs"
	"github.com/gerritforge/gemini-vault/internal/metrics"
	"github.com/gerritforge/gemini-vault/internal/model"
	"github.com/gerritforge/gemini-vault/internal/service"
)

type tokenRequest struct {
	Token string `json:"token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func errorBody(msg string) map[string]string { return map[string]string{"error": msg} }

func statusLabel(status int) string { return strconv.Itoa(status) }

// targetAccount resolves the :account path segment; "self" aliases the caller.
func targetAccount(c echo.Context, caller model.AccountID) (model.AccountID, error) {
	raw := c.Param("account")
	if raw == "self" {
		return caller, nil
	}
	return model.ParseAccountID(raw)
}

// handleSetToken stores (PUT) the caller's Gemini token.
func (s *Server) handleSetToken(c echo.Context) error {
	caller, ok := CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
	}
	target, err := targetAccount(c, caller)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("bad account id"))
	}
	if err := service.RequireSelf(caller, target); err != nil {
		metrics.VaultOpsTotal.WithLabelValues("set", "forbidden").Inc()
		return c.JSON(http.StatusForbidden, errorBody("cannot modify another user's token"))
	}

	var in tokenRequest
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("missing 'token'"))
	}

	if err := s.vault.SetToken(c.Request().Context(), target, in.Token); err != nil {
		return s.vaultError(c, "set", err)
	}
	metrics.VaultOpsTotal.WithLabelValues("set", "ok").Inc()
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetToken returns the caller's decrypted Gemini token.
func (s *Server) handleGetToken(c echo.Context) error {
	caller, ok := CallerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
	}
	target, err := targetAccount(c, caller)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("bad account id"))
	}
	if err := service.RequireSelf(caller, target); err != nil {
		metrics.VaultOpsTotal.WithLabelValues("get", "forbidden").Inc()
		return c.JSON(http.StatusForbidden, errorBody("cannot read another user's token"))
	}

	token, err := s.vault.GetToken(c.Request().Context(), target)
	if err != nil {
		return s.vaultError(c, "get", err)
	}
	metrics.VaultOpsTotal.WithLabelValues("get", "ok").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// vaultError maps vault failures onto HTTP statuses. Integrity and codec
// failures are logged server-side and surfaced as opaque 500s.
func (s *Server) vaultError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		metrics.VaultOpsTotal.WithLabelValues(op, "invalid").Inc()
		return c.JSON(http.StatusBadRequest, errorBody("missing or empty 'token'"))
	case errors.Is(err, errs.ErrNotFound):
		metrics.VaultOpsTotal.WithLabelValues(op, "not_found").Inc()
		return c.JSON(http.StatusNotFound, errorBody("gemini token not set"))
	case errors.Is(err, errs.ErrMalformedKey), errors.Is(err, errs.ErrMalformedState):
		metrics.VaultOpsTotal.WithLabelValues(op, "corrupt").Inc()
		s.log.Error("stored token state is malformed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("stored token has invalid format"))
	case errors.Is(err, errs.ErrCodec):
		metrics.VaultOpsTotal.WithLabelValues(op, "codec").Inc()
		s.log.Error("token codec failure", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("internal error"))
	default:
		metrics.VaultOpsTotal.WithLabelValues(op, "error").Inc()
		s.log.Error("vault operation failed", zap.String("op", op), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorBody("internal error"))
	}
}

// handleLiveness reports process liveness.
func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadiness reports readiness, including backing store reachability.
func (s *Server) handleReadiness(c echo.Context) error {
	if s.ready != nil {
		if err := s.ready(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, errorBody("store unavailable"))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
