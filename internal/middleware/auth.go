package middleware

import (
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"clinicbook/internal/auth"
	"clinicbook/internal/errors"
)

// JWT parses and verifies the bearer token. Absent or malformed credentials
// are always 401, never treated as anonymous; policy failures on a verified
// token are 403 and happen in Require below. The gate runs before any
// handler, so no store mutation can precede authorization.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			he := errors.MapErrorToHTTP(errors.Unauthorized("missing or invalid token"))
			return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
		},
	})
}

// Principal extracts the verified principal set by the JWT middleware, or nil
// when the request carries none.
func Principal(c echo.Context) *auth.Principal {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil
	}
	return auth.PrincipalFromClaims(claims)
}

// Require gates a route on a policy.
func Require(policy auth.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := auth.Authorize(Principal(c), policy); err != nil {
				he := errors.MapErrorToHTTP(err)
				return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
			}
			return next(c)
		}
	}
}

// RequireSelfOrAdmin gates a route on the SelfOrAdmin policy, taking the
// target subject from the named path parameter.
func RequireSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			policy := auth.SelfOrAdmin(c.Param(param))
			if _, err := auth.Authorize(Principal(c), policy); err != nil {
				he := errors.MapErrorToHTTP(err)
				return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
			}
			return next(c)
		}
	}
}
