package utils

import (
	"errors"
	"github.com/labstack/echo/v4"
)

const tokenDataKey = "token_data"

var ErrNoTokenData = errors.New("no token data on request context")

// TokenData is what the auth middleware extracts from a verified ID token.
// Sub is the identity provider's subject and doubles as the document owner uid.
type TokenData struct {
	Sub   string
	Email string
}

func SetTokenDataCtx(c echo.Context, data *TokenData) {
	c.Set(tokenDataKey, data)
}

func ParseTokenDataCtx(c echo.Context) (*TokenData, error) {
	data, ok := c.Get(tokenDataKey).(*TokenData)
	if !ok || data == nil || data.Sub == "" {
		return nil, ErrNoTokenData
	}
	return data, nil
}
