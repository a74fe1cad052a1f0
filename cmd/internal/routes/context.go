package routes

import (
	"context"
	"github.com/labstack/echo/v4"
)

// requestContext keeps the request's values but not its cancellation. A
// write or a consistency rule that has started runs to the end even when
// the client hangs up.
func requestContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}
