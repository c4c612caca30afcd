package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domain "github.com/resumelens/resumelens/internal/domain/analyses"
	"github.com/resumelens/resumelens/internal/filetext"
	"github.com/resumelens/resumelens/internal/infra/analyzer/prompt"
)

const maxTokens = 2048

// minimum extracted characters before the résumé is worth sending
const minTextLen = 50

// Client runs the analysis in-process against the OpenAI API instead of
// delegating to a remote analyzer service.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Result, error) {
	text, err := filetext.Extract(req.FileName, req.Data)
	if err != nil {
		return nil, &domain.AnalysisError{Status: http.StatusBadRequest, Detail: err.Error()}
	}
	if len(strings.TrimSpace(text)) < minTextLen {
		return nil, &domain.AnalysisError{
			Status: http.StatusBadRequest,
			Detail: "Could not extract meaningful text from the resume file",
		}
	}

	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	creq := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(text, req.JobTitle, req.Industry)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		creq.MaxCompletionTokens = maxTokens
	} else {
		creq.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, &domain.AnalysisError{
			Status: http.StatusBadGateway,
			Detail: fmt.Sprintf("Error analyzing resume: %v", err),
		}
	}
	if len(resp.Choices) == 0 {
		return nil, &domain.AnalysisError{Status: http.StatusBadGateway, Detail: "empty completion"}
	}

	var out domain.Result
	content := cleanJSON(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, &domain.AnalysisError{
			Status: http.StatusBadGateway,
			Detail: "analyzer produced unparseable output",
		}
	}
	if out.Score < 0 {
		out.Score = 0
	}
	if out.Score > 100 {
		out.Score = 100
	}
	return &out, nil
}

// cleanJSON strips markdown code fences some models wrap around JSON.
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
