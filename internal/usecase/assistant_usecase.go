package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/infrastructure/assistant"

	"github.com/sirupsen/logrus"
)

var (
	ErrAssistantDisabled = errors.New("virtual assistant is not available")
	ErrEmptyMessage      = errors.New("message must not be empty")
)

// Replier answers a single chat message
type Replier interface {
	Enabled() bool
	Reply(ctx context.Context, message string) (string, error)
}

type AssistantUsecase interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type assistantUsecase struct {
	log    *logrus.Logger
	client Replier
}

func NewAssistantUsecase(log *logrus.Logger, client Replier) AssistantUsecase {
	return &assistantUsecase{log: log, client: client}
}

func (u *assistantUsecase) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if !u.client.Enabled() {
		return nil, ErrAssistantDisabled
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	reply, err := u.client.Reply(ctx, message)
	if err != nil {
		if errors.Is(err, assistant.ErrNotConfigured) {
			return nil, ErrAssistantDisabled
		}
		u.log.Warnf("Failed to get assistant reply: %+v", err)
		return nil, err
	}

	return &dto.ChatResponse{Reply: reply}, nil
}
