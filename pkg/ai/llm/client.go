package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel    = "gpt-3.5-turbo"
	maxTokens       = 1000
	temperature     = 0.7
	requestTimeout  = 30 * time.Second
	maxHistoryItems = 10
)

// FallbackMessage is returned to the user when the model cannot be reached.
const FallbackMessage = "I apologize, but I'm experiencing technical difficulties. Please try again later."

// Response is a generated assistant reply plus usage metadata.
type Response struct {
	Text         string
	Model        string
	Tokens       int
	ResponseTime int64
}

// HistoryMessage is a prior turn of a case conversation.
type HistoryMessage struct {
	Role    string
	Content string
}

// CaseContext carries the case details injected into the system prompt.
type CaseContext struct {
	Name        string
	Client      string
	Description string
	Status      string
}

// Client wraps the OpenAI-compatible chat completion API.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates an LLM client. baseURL overrides the API endpoint for
// OpenAI-compatible providers; model falls back to gpt-3.5-turbo.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultModel
	}

	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// GenerateResponse produces an assistant reply for a user message within a
// case conversation.
func (c *Client) GenerateResponse(ctx context.Context, userMessage string, caseCtx CaseContext, history []HistoryMessage) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(caseCtx)},
	}

	if len(history) > maxHistoryItems {
		history = history[len(history)-maxHistoryItems:]
	}
	for _, h := range history {
		role := openai.ChatMessageRoleUser
		if h.Role == "ai" || h.Role == openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: h.Content})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &Response{
		Text:         strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:        resp.Model,
		Tokens:       resp.Usage.TotalTokens,
		ResponseTime: time.Since(start).Milliseconds(),
	}, nil
}

// AnalyzeDocument asks the model to summarize an uploaded legal document.
func (c *Client) AnalyzeDocument(ctx context.Context, filename, excerpt string, caseCtx CaseContext) (*Response, error) {
	prompt := fmt.Sprintf(
		"Analyze the following document (%s) in the context of this case. Summarize the key points, obligations and any deadlines.\n\n%s",
		filename, excerpt,
	)
	return c.GenerateResponse(ctx, prompt, caseCtx, nil)
}

func buildSystemPrompt(caseCtx CaseContext) string {
	var b strings.Builder

	b.WriteString("You are an AI legal assistant helping a lawyer with their case. ")
	b.WriteString("Provide helpful, professional analysis and suggestions. ")
	b.WriteString("Always remind the user that your responses are informational and do not constitute legal advice. ")
	b.WriteString("Do not answer questions unrelated to the legal domain.\n\n")

	b.WriteString("Case details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", caseCtx.Name)
	fmt.Fprintf(&b, "- Client: %s\n", caseCtx.Client)
	if caseCtx.Status != "" {
		fmt.Fprintf(&b, "- Status: %s\n", caseCtx.Status)
	}
	if caseCtx.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", caseCtx.Description)
	}

	return b.String()
}
