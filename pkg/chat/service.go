package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coweringg/LawCaseAI/pkg/ai/llm"
	"github.com/coweringg/LawCaseAI/pkg/models"
)

// ErrEmptyMessage is returned when a message is empty after trimming.
var ErrEmptyMessage = errors.New("message content is required")

// Responder generates AI replies. Implemented by the llm client.
type Responder interface {
	GenerateResponse(ctx context.Context, userMessage string, caseCtx llm.CaseContext, history []llm.HistoryMessage) (*llm.Response, error)
}

// CaseLookup resolves owned cases for ownership checks and prompt context.
type CaseLookup interface {
	FindByID(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Case, error)
}

// Service is the conversation store plus the AI reply pipeline.
type Service struct {
	repo      Repository
	cases     CaseLookup
	responder Responder

	// replyDone is signalled after each background reply attempt.
	// Tests use it to wait for the goroutine.
	replyDone chan struct{}
}

// NewService creates a chat service. responder may be nil; messages are
// then stored without AI replies.
func NewService(repo Repository, cases CaseLookup, responder Responder) *Service {
	return &Service{
		repo:      repo,
		cases:     cases,
		responder: responder,
		replyDone: make(chan struct{}, 16),
	}
}

// Send persists the user's message and kicks off AI reply generation in
// the background. The stored user message is returned immediately.
func (s *Service) Send(ctx context.Context, caseID, ownerID primitive.ObjectID, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	c, err := s.cases.FindByID(ctx, caseID, ownerID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		Content: content,
		Sender:  models.SenderUser,
		CaseID:  caseID,
		UserID:  ownerID,
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	if s.responder != nil {
		go s.generateReply(c, msg.Content, ownerID)
	}

	return msg, nil
}

// generateReply produces and persists the AI message. Failures fall back
// to a canned apology so the conversation never stalls silently.
func (s *Service) generateReply(c *models.Case, userMessage string, ownerID primitive.ObjectID) {
	defer func() {
		select {
		case s.replyDone <- struct{}{}:
		default:
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()

	history, err := s.repo.ListByCase(ctx, c.ID)
	if err != nil {
		log.Printf("⚠️ Failed to load history for case %s: %v", c.ID.Hex(), err)
		history = nil
	}

	// The message being answered was already persisted and sits at the tail
	// of the history; it goes to the model separately, so drop it here.
	if n := len(history); n > 0 && history[n-1].Sender == models.SenderUser && history[n-1].Content == userMessage {
		history = history[:n-1]
	}

	llmHistory := make([]llm.HistoryMessage, 0, len(history))
	for _, h := range history {
		llmHistory = append(llmHistory, llm.HistoryMessage{Role: string(h.Sender), Content: h.Content})
	}

	caseCtx := llm.CaseContext{
		Name:        c.Name,
		Client:      c.Client,
		Description: c.Description,
		Status:      string(c.Status),
	}

	reply := &models.ChatMessage{
		Sender: models.SenderAI,
		CaseID: c.ID,
		UserID: ownerID,
	}

	resp, err := s.responder.GenerateResponse(ctx, userMessage, caseCtx, llmHistory)
	if err != nil {
		log.Printf("⚠️ AI reply failed for case %s: %v", c.ID.Hex(), err)
		reply.Content = llm.FallbackMessage
	} else {
		reply.Content = resp.Text
		reply.Metadata = &models.MessageMetadata{
			Model:        resp.Model,
			Tokens:       resp.Tokens,
			ResponseTime: resp.ResponseTime,
		}
	}

	if err := s.repo.Insert(ctx, reply); err != nil {
		log.Printf("⚠️ Failed to persist AI reply for case %s: %v", c.ID.Hex(), err)
	}
}

// Messages returns the conversation for an owned case, oldest first,
// capped at HistoryLimit.
func (s *Service) Messages(ctx context.Context, caseID, ownerID primitive.ObjectID) ([]models.ChatMessage, error) {
	if _, err := s.cases.FindByID(ctx, caseID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCase(ctx, caseID)
}

// Count returns the number of messages on an owned case.
func (s *Service) Count(ctx context.Context, caseID, ownerID primitive.ObjectID) (int64, error) {
	if _, err := s.cases.FindByID(ctx, caseID, ownerID); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, caseID)
}

// Latest returns the newest message on an owned case, or nil when the
// conversation is empty.
func (s *Service) Latest(ctx context.Context, caseID, ownerID primitive.ObjectID) (*models.ChatMessage, error) {
	if _, err := s.cases.FindByID(ctx, caseID, ownerID); err != nil {
		return nil, err
	}
	return s.repo.Latest(ctx, caseID)
}

// ClearCase deletes the conversation of an owned case.
func (s *Service) ClearCase(ctx context.Context, caseID, ownerID primitive.ObjectID) error {
	if _, err := s.cases.FindByID(ctx, caseID, ownerID); err != nil {
		return err
	}
	return s.repo.DeleteByCase(ctx, caseID)
}

// PurgeCase deletes the conversation without an ownership check. Used by
// the case deletion cascade, which has already verified ownership.
func (s *Service) PurgeCase(ctx context.Context, caseID primitive.ObjectID) error {
	return s.repo.DeleteByCase(ctx, caseID)
}
