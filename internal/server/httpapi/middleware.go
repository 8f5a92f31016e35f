package httpapi

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gerritforge/gemini-vault/internal/metrics"
)

// requireAuth resolves the caller identity from the bearer token and rejects
// unauthenticated requests before any handler runs.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		caller, err := callerFromBearer(c, s.signKey)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("authentication required"))
		}
		WithCallerID(c, caller)
		return next(c)
	}
}

// loggingMiddleware logs request metadata and records metrics. Payloads are
// never logged: request bodies and stored ids carry secret material.
func (s *Server) loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		reqID := ""
		if id, err := uuid.NewV4(); err == nil {
			reqID = id.String()
		}

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		status := c.Response().Status
		route := c.Path()
		dur := time.Since(start)

		s.log.Info("http",
			zap.String("method", c.Request().Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("dur", dur),
			zap.String("req_id", reqID),
			zap.String("remote", c.RealIP()),
		)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, statusLabel(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, route).Observe(dur.Seconds())
		return nil
	}
}

// recoverMiddleware recovers from handler panics, logs the stack, and turns
// the request into a 500.
func (s *Server) recoverMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("panic",
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
					zap.String("route", c.Path()),
				)
				err = c.JSON(http.StatusInternalServerError, errorBody("internal error"))
			}
		}()
		return next(c)
	}
}
