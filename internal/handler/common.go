package handler // http handlers for the API

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the authenticated user's ID from echo.Context
// and converts it to uint64.  JWT claim decoding may surface the
// subject as any numeric type or a string, so all are tolerated.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// contextTier returns the tier claim stored by the JWT middleware, or
// the empty string when absent.
func contextTier(c echo.Context) string {
	if s, ok := c.Get("tier").(string); ok {
		return s
	}
	return ""
}
