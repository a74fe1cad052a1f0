package routes

import (
	"context"
	"github.com/labstack/echo/v4"
	"lifemate/cmd/internal/service"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
	"net/http"
)

type ChatService interface {
	Ask(ctx context.Context, req *service.ChatRequest, uid string) (*service.ChatResponse, apierror.ErrorResponse)
}

type DefaultChatRoute struct {
	ChatService ChatService
}

func NewChatDefault(chatService ChatService) *DefaultChatRoute {
	return &DefaultChatRoute{ChatService: chatService}
}

func (r *DefaultChatRoute) Ask(c echo.Context) error {
	var req service.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	resp, apierr := r.ChatService.Ask(requestContext(c), &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
