package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/KS-2006-TD/LMS/core/auth"
	"github.com/KS-2006-TD/LMS/core/user"
)

const contextClaimsKey = "userToken"

var (
	errMissingToken = echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	errInvalidToken = echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
)

// authMiddleware verifies the bearer token and stores its claims in the context.
func authMiddleware(iss *auth.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			parts := strings.SplitN(ctx.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
			if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
				return errMissingToken
			}
			claims, err := iss.VerifyToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return errInvalidToken
			}
			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

func getContextClaims(ctx echo.Context) (auth.Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*auth.Claims); ok {
		return *claims, nil
	}
	return auth.Claims{}, errMissingToken
}

// getCaller returns the identity of the authenticated caller.
func getCaller(ctx echo.Context) (user.Profile, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.Profile{}, err
	}
	return claims.Profile(), nil
}
