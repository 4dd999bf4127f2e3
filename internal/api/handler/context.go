package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-api/internal/core/domain"
)

const (
	principalKey = "principal"

	// ResourceKey holds the singular name of the entity a handler serves;
	// the error handler uses it to phrase 404 and 409 messages.
	ResourceKey = "resource"
)

// SetPrincipal stores the identity verified by the gate.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the identity stored by the gate.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// ctxPrincipal fails fast when a handler runs without the gate in front
// of it.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := PrincipalFrom(c)
	if !ok || !p.Role.Valid() {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}
