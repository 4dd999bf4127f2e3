package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/schoolhub/school-api/internal/api/handler"
	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/pkg/metrics"
)

// Authorizer decides whether the bearer of authHeader may pass policy.
type Authorizer interface {
	Authorize(ctx context.Context, authHeader string, policy domain.Policy) (domain.Principal, error)
}

// Gate authenticates the request and applies the policy declared for its
// route in table. A route with no entry gets the zero policy and is
// refused to every role.
func Gate(authz Authorizer, table domain.PolicyTable, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			policy, ok := table.Lookup(req.Method, c.Path())
			if !ok {
				log.Warn().Str("method", req.Method).Str("route", c.Path()).Msg("route has no access policy")
			}

			principal, err := authz.Authorize(req.Context(), req.Header.Get(echo.HeaderAuthorization), policy)
			if err != nil {
				metrics.GateDecisionsTotal.WithLabelValues(decision(err)).Inc()
				return err
			}

			metrics.GateDecisionsTotal.WithLabelValues("permit").Inc()
			handler.SetPrincipal(c, principal)
			return next(c)
		}
	}
}

func decision(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
