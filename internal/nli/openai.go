package nli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/veridict/veridict/internal/model"
)

// pairScoreSystemPrompt drives the cross-encoder scoring mode
const pairScoreSystemPrompt = `You score how relevant a piece of evidence is to a factual claim. Respond with only a JSON object: {"score": <0-1>} where 1 means the evidence directly addresses the claim and 0 means it is unrelated.`

// OpenAIClassifier runs NLI classification over the OpenAI chat API. It
// doubles as the cross-encoder pair scorer for reranking.
type OpenAIClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClassifier creates an OpenAI-backed classifier
func NewOpenAIClassifier(cfg model.VerifyConfig) (*OpenAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClassifier{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   chatModel,
		timeout: timeout,
	}, nil
}

// Name returns the classifier name
func (c *OpenAIClassifier) Name() string {
	return "openai"
}

// IsAvailable checks if the API is reachable with the configured key
func (c *OpenAIClassifier) IsAvailable(ctx context.Context) bool {
	_, err := c.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Classify scores one (premise, hypothesis) pair via a chat completion
func (c *OpenAIClassifier) Classify(ctx context.Context, premise, hypothesis string) (Scores, error) {
	answer, err := c.complete(ctx, classifySystemPrompt, classifyUserPrompt(premise, hypothesis))
	if err != nil {
		return Scores{}, err
	}
	return parseScores(answer)
}

// ScorePair rates claim/evidence relevance 0-1 for the cross-encoder
// reranker
func (c *OpenAIClassifier) ScorePair(ctx context.Context, claim, evidence string) (float64, error) {
	prompt := fmt.Sprintf("CLAIM: %s\n\nEVIDENCE: %s", claim, evidence)
	answer, err := c.complete(ctx, pairScoreSystemPrompt, prompt)
	if err != nil {
		return 0, err
	}
	return parsePairScore(answer)
}

func (c *OpenAIClassifier) complete(ctx context.Context, system, user string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: 200,
		// A literal 0 is dropped by omitempty and the server default kicks in
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// parsePairScore decodes a {"score": x} answer
func parsePairScore(raw string) (float64, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return 0, fmt.Errorf("no JSON object in pair score response: %q", truncate(raw, 200))
	}

	var out struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return 0, fmt.Errorf("decode pair score response: %w", err)
	}
	return out.Score, nil
}
