package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

// summarySystemPrompt instructs the model to emit a bare JSON object
// with exactly the six StructuredSummary fields.
const summarySystemPrompt = `You are a professional meeting-minutes assistant. Given a meeting transcript, produce a structured JSON summary.

Output a bare JSON object only, no markdown and no extra text. Format:
{
  "summary": "a short meeting summary (1-3 sentences)",
  "topics": ["topic 1", "topic 2"],
  "keyDecisions": ["key decision 1", "key decision 2"],
  "actionItems": [
    { "assignee": "owner", "task": "task description", "deadline": "YYYY-MM-DD" }
  ],
  "todos": ["todo 1", "todo 2"],
  "decisions": ["decision 1", "decision 2"]
}

Rules:
- topics: subjects or focus points discussed in the meeting
- keyDecisions: important decisions made during the meeting
- actionItems: tasks with an explicit owner and deadline (assignee, task, deadline all required)
- todos: short todo items (derive from actionItems tasks if none stated)
- decisions: same as keyDecisions or a simplified version`

// ChatClient is a minimal client for chat-completion calls used for
// summary generation
type ChatClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewChatClient creates a summarization client using values from the
// provided config. Pass a nil config to fall back to environment
// variables.
func NewChatClient(cfg *config.OpenAIConfig) *ChatClient {
	var apiKey, base, model string
	// An unbounded provider call would stall the upload worker, so the
	// summarization call always carries an explicit bound.
	timeout := 60 * time.Second

	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
		model = cfg.ChatModel
		if cfg.SummarizeTimeout > 0 {
			timeout = cfg.SummarizeTimeout
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if base == "" {
		base = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o"
	}

	return &ChatClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatMessage is one conversation turn
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateSummary sends the transcript to the provider and returns the
// raw assistant content. The caller is responsible for parsing it into
// a StructuredSummary and for degrading to the fallback on failure.
func (g *ChatClient) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	userPrompt := fmt.Sprintf("Produce a summary for the following meeting transcript:\n\n%s", transcript)

	reqBody := ChatRequest{
		Model: g.model,
		Messages: []ChatMessage{
			{Role: "system", Content: summarySystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.3,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("summarization provider returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from summarization provider")
	}
	return cr.Choices[0].Message.Content, nil
}
