package services

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/chat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingAssistant struct{}

func (failingAssistant) Name() string { return "failing" }
func (failingAssistant) Reply(context.Context, chat.ReplyInput) (string, error) {
	return "", errors.New("model overloaded")
}

func TestChatReply_LogsBothSides(t *testing.T) {
	repo := new(MockChatRepository)
	catalog := new(MockCatalogRepository)
	svc := NewChatService(repo, catalog, chat.NewStubProvider(), zap.NewNop())

	session := &models.ChatSession{ID: uuid.New(), SessionID: "chat-token"}
	repo.On("FindOrCreateSession", mock.Anything, "chat-token", (*uuid.UUID)(nil)).Return(session, nil).Once()
	repo.On("AppendMessage", mock.Anything, mock.MatchedBy(func(m *models.ChatMessage) bool {
		ctx, _ := m.Meta["context"].(map[string]interface{})
		return m.Role == models.ChatRoleUser && m.SessionID == session.ID && ctx["productSlug"] == "calm-balm"
	})).Return(nil).Once()
	repo.On("AppendMessage", mock.Anything, mock.MatchedBy(func(m *models.ChatMessage) bool {
		return m.Role == models.ChatRoleAssistant && m.Meta["provider"] == chat.ProviderStub
	})).Return(nil).Once()
	catalog.On("TopProducts", mock.Anything, chatProductHints).Return([]models.Product{}, errors.New("timeout")).Once()

	reply, err := svc.Reply(context.Background(), ChatRequest{
		SessionKey: "chat-token",
		Message:    "hello",
		Context:    &chat.Context{Path: "/products/calm-balm", ProductSlug: "calm-balm"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	repo.AssertExpectations(t)
}

func TestChatReply_AssistantFailure(t *testing.T) {
	repo := new(MockChatRepository)
	catalog := new(MockCatalogRepository)
	svc := NewChatService(repo, catalog, failingAssistant{}, zap.NewNop())

	session := &models.ChatSession{ID: uuid.New(), SessionID: "chat-token"}
	repo.On("FindOrCreateSession", mock.Anything, "chat-token", mock.Anything).Return(session, nil).Once()
	repo.On("AppendMessage", mock.Anything, mock.Anything).Return(nil).Once()
	catalog.On("TopProducts", mock.Anything, chatProductHints).Return([]models.Product{}, nil).Once()

	_, err := svc.Reply(context.Background(), ChatRequest{SessionKey: "chat-token", Message: "hi"})

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindUpstream, appErr.Kind)
	assert.Equal(t, 502, appErr.Code)
	repo.AssertNumberOfCalls(t, "AppendMessage", 1)
}
