package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/whisperlink/whisperlink-backend/internal/config"
)

// Augmenter rewrites a submitter's raw thoughts into structured feedback.
// Implementations must degrade to returning the raw input unchanged rather
// than surfacing an error to the anonymous submitter.
type Augmenter interface {
	GenerateFeedback(ctx context.Context, userInput, recipientName string) string
}

// TogetherService calls the Together AI chat-completions endpoint.
type TogetherService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewTogetherService(cfg *config.Config) *TogetherService {
	return &TogetherService{
		apiKey:  cfg.TogetherAPIKey,
		model:   cfg.TogetherModel,
		baseURL: cfg.TogetherBaseURL,
		client:  &http.Client{Timeout: cfg.TogetherTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const augmentSystemPrompt = "You are an expert feedback coach and communication specialist. " +
	"Your role is to help people transform raw, unstructured feedback into comprehensive, " +
	"professional, and constructive messages that promote growth and maintain positive relationships."

// GenerateFeedback turns raw thoughts into polished feedback addressed to
// recipientName. On any failure (missing or placeholder credential, transport
// error, unexpected status, unparseable body, empty completion) it returns
// userInput unchanged. A single attempt, no retries.
func (s *TogetherService) GenerateFeedback(ctx context.Context, userInput, recipientName string) string {
	if s.apiKey == "" || s.apiKey == config.TogetherPlaceholderKey {
		return userInput
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: augmentSystemPrompt},
			{Role: "user", Content: buildAugmentPrompt(userInput, recipientName)},
		},
		MaxTokens:   1000,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("augment: failed to encode request: %v", err)
		return userInput
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("augment: failed to build request: %v", err)
		return userInput
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("augment: request failed: %v", err)
		return userInput
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("augment: unexpected status %d", resp.StatusCode)
		return userInput
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("augment: failed to parse response: %v", err)
		return userInput
	}
	if len(result.Choices) == 0 {
		log.Println("augment: response contained no choices")
		return userInput
	}

	generated := strings.TrimSpace(result.Choices[0].Message.Content)
	if generated == "" {
		return userInput
	}
	return generated
}

func buildAugmentPrompt(userInput, recipientName string) string {
	return fmt.Sprintf(`You are an expert feedback coach helping someone give constructive, comprehensive feedback to %s.

Raw feedback provided: %q

Transform this into a well-structured, comprehensive feedback that includes:

1. **Positive Recognition**: Start with what they do well or their strengths
2. **Specific Observations**: Detailed, concrete examples of behaviors or actions
3. **Impact Statement**: How their actions affect others or the situation
4. **Growth Opportunities**: Specific areas for development with actionable suggestions
5. **Encouragement**: End with support and confidence in their potential

Format the feedback with clear structure using paragraph breaks. Make it:
- Comprehensive and detailed (aim for 3-4 substantial paragraphs)
- Professional yet warm and human
- Specific with concrete examples when possible
- Balanced between appreciation and growth areas
- Actionable with clear next steps
- Encouraging and supportive

Return only the enhanced feedback message with proper paragraph spacing.`, recipientName, userInput)
}

