package service

import (
	"context"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"lifemate/cmd/internal/utils"
	"lifemate/cmd/internal/utils/apierror"
)

type ChatGateway interface {
	Chat(ctx context.Context, message string) (string, error)
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type DefaultChatService struct {
	Gateway  ChatGateway
	Validate *validator.Validate
}

func NewChatService(gateway ChatGateway, validate *validator.Validate) *DefaultChatService {
	return &DefaultChatService{Gateway: gateway, Validate: validate}
}

// Ask forwards one message. A failed call and an empty reply look the same
// to the caller.
func (c *DefaultChatService) Ask(ctx context.Context, req *ChatRequest, uid string) (*ChatResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := c.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	reply, err := c.Gateway.Chat(ctx, req.Message)
	if err != nil {
		log.Errorf("chat request of %s failed: %v", uid, err)
		return nil, apierror.ChatNoReplyError
	}
	if reply == "" {
		return nil, apierror.ChatNoReplyError
	}
	return &ChatResponse{Reply: reply}, nil
}
