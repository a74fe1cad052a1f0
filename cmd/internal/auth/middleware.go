package auth

import (
	"github.com/labstack/echo/v4"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
	"strings"
)

// Middleware rejects requests without a valid bearer token and stores the
// token data on the context for utils.ParseTokenDataCtx. Browsers cannot
// set headers on websocket upgrades, so "access_token" in the query is
// accepted as well.
func Middleware(v *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			data, err := v.Verify(raw)
			if err != nil {
				c.Logger().Debugf("rejected token: %v", err)
				return c.JSON(apierror.InvalidAuthTokenError.Code(), apierror.InvalidAuthTokenError)
			}

			utils.SetTokenDataCtx(c, data)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(c.QueryParam("access_token"))
}
