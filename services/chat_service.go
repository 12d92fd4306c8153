package services

import (
	"context"

	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/chat"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const chatProductHints = 8

type ChatRequest struct {
	SessionKey string
	UserID     *uuid.UUID
	Message    string
	Context    *chat.Context
}

type ChatService interface {
	Reply(ctx context.Context, req ChatRequest) (string, error)
}

type chatService struct {
	repo     repository.ChatRepository
	catalog  repository.CatalogRepository
	provider chat.Provider
	logger   *zap.Logger
}

func NewChatService(repo repository.ChatRepository, catalog repository.CatalogRepository, provider chat.Provider, logger *zap.Logger) ChatService {
	return &chatService{repo: repo, catalog: catalog, provider: provider, logger: logger}
}

// Reply logs the shopper's message, asks the assistant and logs its answer.
func (s *chatService) Reply(ctx context.Context, req ChatRequest) (string, error) {
	session, err := s.repo.FindOrCreateSession(ctx, req.SessionKey, req.UserID)
	if err != nil {
		return "", apperrors.Storage(err)
	}

	pageContext := map[string]interface{}{}
	if req.Context != nil {
		if req.Context.Path != "" {
			pageContext["path"] = req.Context.Path
		}
		if req.Context.ProductSlug != "" {
			pageContext["productSlug"] = req.Context.ProductSlug
		}
	}
	if err := s.repo.AppendMessage(ctx, &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.ChatRoleUser,
		Content:   req.Message,
		Meta:      map[string]interface{}{"context": pageContext},
	}); err != nil {
		return "", apperrors.Storage(err)
	}

	products, err := s.catalog.TopProducts(ctx, chatProductHints)
	if err != nil {
		// suggestions are optional
		s.logger.Warn("Failed to load product hints for chat", zap.Error(err))
	}
	hints := make([]chat.ProductHint, 0, len(products))
	for _, p := range products {
		hints = append(hints, chat.ProductHint{Name: p.Name, Slug: p.Slug, ShortBenefit: p.ShortBenefit})
	}

	reply, err := s.provider.Reply(ctx, chat.ReplyInput{Message: req.Message, Context: req.Context, Products: hints})
	if err != nil {
		s.logger.Error("Chat provider failed", zap.String("provider", s.provider.Name()), zap.Error(err))
		return "", apperrors.New(apperrors.KindUpstream, "Assistant unavailable", err)
	}

	if err := s.repo.AppendMessage(ctx, &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.ChatRoleAssistant,
		Content:   reply,
		Meta:      map[string]interface{}{"provider": s.provider.Name()},
	}); err != nil {
		return "", apperrors.Storage(err)
	}
	return reply, nil
}
