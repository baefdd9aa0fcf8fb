package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/infrastructure/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReplier struct {
	enabled bool
	reply   string
	err     error
	got     string
}

func (r *stubReplier) Enabled() bool { return r.enabled }

func (r *stubReplier) Reply(_ context.Context, message string) (string, error) {
	r.got = message
	return r.reply, r.err
}

func TestAssistantChat(t *testing.T) {
	t.Run("disabled without api key", func(t *testing.T) {
		u := NewAssistantUsecase(newTestLogger(), &stubReplier{})

		_, err := u.Chat(context.Background(), &dto.ChatRequest{Message: "Orari?"})

		assert.ErrorIs(t, err, ErrAssistantDisabled)
	})

	t.Run("blank message", func(t *testing.T) {
		u := NewAssistantUsecase(newTestLogger(), &stubReplier{enabled: true})

		_, err := u.Chat(context.Background(), &dto.ChatRequest{Message: "   "})

		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("trimmed message is forwarded", func(t *testing.T) {
		replier := &stubReplier{enabled: true, reply: "Siamo aperti dalle 9 alle 18."}
		u := NewAssistantUsecase(newTestLogger(), replier)

		resp, err := u.Chat(context.Background(), &dto.ChatRequest{Message: "  Orari?  "})

		require.NoError(t, err)
		assert.Equal(t, "Orari?", replier.got)
		assert.Equal(t, "Siamo aperti dalle 9 alle 18.", resp.Reply)
	})

	t.Run("not configured maps to disabled", func(t *testing.T) {
		u := NewAssistantUsecase(newTestLogger(), &stubReplier{enabled: true, err: assistant.ErrNotConfigured})

		_, err := u.Chat(context.Background(), &dto.ChatRequest{Message: "Orari?"})

		assert.ErrorIs(t, err, ErrAssistantDisabled)
	})

	t.Run("upstream failure", func(t *testing.T) {
		upstream := errors.New("status 500")
		u := NewAssistantUsecase(newTestLogger(), &stubReplier{enabled: true, err: upstream})

		_, err := u.Chat(context.Background(), &dto.ChatRequest{Message: "Orari?"})

		assert.ErrorIs(t, err, upstream)
	})
}
