package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/C4st3ll4n/recipe-api/internal/middleware"
	"github.com/C4st3ll4n/recipe-api/internal/service"
)

// requireUserID extracts the authenticated user id from the context. A
// missing id means the route was registered without the auth middleware
// or the middleware was bypassed; either way the request is refused.
// When ok is false the 401 response has already been written and the
// handler must return err as-is.
func requireUserID(c echo.Context) (id uint64, ok bool, err error) {
	id, ok = middleware.UserID(c)
	if !ok {
		return 0, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return id, true, nil
}

// fieldError writes a 400 response carrying per-field messages.
func fieldError(c echo.Context, fields service.FieldErrors) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"errors": fields})
}

// maybeFieldError writes a validation failure as a 400 when err is a
// FieldErrors, and reports true; other errors are left to the caller.
func maybeFieldError(c echo.Context, err error) (bool, error) {
	var fields service.FieldErrors
	if errors.As(err, &fields) {
		return true, fieldError(c, fields)
	}
	return false, nil
}

// parseIDList parses a comma-separated list of positive integer ids as
// used by the tags/ingredients query filters. Empty input yields nil;
// malformed entries produce an error for a 400.
func parseIDList(raw string) ([]uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || n == 0 {
			return nil, errors.New("invalid id list")
		}
		ids = append(ids, n)
	}
	return ids, nil
}

// parseBoolParam interprets the assigned_only style query flags where
// "1" and "true" mean on.
func parseBoolParam(raw string) bool {
	return raw == "1" || strings.EqualFold(raw, "true")
}

// dedupe removes repeated ids preserving first-seen order.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
