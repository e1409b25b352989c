package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/foxxcyber/mealplanner/internal/models"
)

const (
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	openAITimeout      = 60 * time.Second
	defaultModel       = "gpt-4o-mini"
)

var (
	ErrAIDisabled      = errors.New("ai generation is not configured")
	ErrAIEmptyResponse = errors.New("ai returned an empty response")
	ErrAIBadResponse   = errors.New("ai returned an unparseable menu")
)

// OpenAIService generates weekly menus and meal alternatives through the
// chat completions API. Token usage is returned per call, never accumulated
// in service state, so concurrent requests account independently.
type OpenAIService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIService creates a new OpenAI client. An empty API key disables
// generation; calls then return ErrAIDisabled.
func NewOpenAIService(apiKey, model string) *OpenAIService {
	if model == "" {
		model = defaultModel
	}
	return &OpenAIService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: openAITimeout,
		},
	}
}

// Enabled reports whether an API key is configured
func (s *OpenAIService) Enabled() bool {
	return s.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

const menuSystemPrompt = `You are a meal planning assistant. Respond with a JSON object of the form
{"meals":[{"day_of_week":"Monday","meal_type":"dinner","title":"...","description":"...","ingredients":"one ingredient per line"}]}
covering breakfast, lunch and dinner for all seven days.`

// GenerateMenu asks for a week of meals matching the given preferences. The
// returned usage accumulator covers exactly this call; the caller is
// responsible for persisting it.
func (s *OpenAIService) GenerateMenu(ctx context.Context, preferences string) (*models.GeneratedMenu, models.AIUsage, error) {
	var usage models.AIUsage

	if !s.Enabled() {
		return nil, usage, ErrAIDisabled
	}

	userPrompt := "Plan a week of meals."
	if strings.TrimSpace(preferences) != "" {
		userPrompt = fmt.Sprintf("Plan a week of meals. Preferences: %s", preferences)
	}

	content, callUsage, err := s.complete(ctx, menuSystemPrompt, userPrompt)
	usage.Add(callUsage)
	if err != nil {
		return nil, usage, err
	}

	var menu models.GeneratedMenu
	if err := json.Unmarshal([]byte(content), &menu); err != nil {
		return nil, usage, fmt.Errorf("%w: %v", ErrAIBadResponse, err)
	}
	if len(menu.Meals) == 0 {
		return nil, usage, ErrAIEmptyResponse
	}

	return &menu, usage, nil
}

const alternativePrompt = `You suggest a single replacement meal. Respond with a JSON object
{"day_of_week":"...","meal_type":"...","title":"...","description":"...","ingredients":"one per line"}.`

// GenerateAlternative asks for one replacement meal for the given title
func (s *OpenAIService) GenerateAlternative(ctx context.Context, originalTitle, preferences string) (*models.GeneratedMeal, models.AIUsage, error) {
	var usage models.AIUsage

	if !s.Enabled() {
		return nil, usage, ErrAIDisabled
	}

	userPrompt := fmt.Sprintf("Suggest an alternative to %q.", originalTitle)
	if strings.TrimSpace(preferences) != "" {
		userPrompt += " Preferences: " + preferences
	}

	content, callUsage, err := s.complete(ctx, alternativePrompt, userPrompt)
	usage.Add(callUsage)
	if err != nil {
		return nil, usage, err
	}

	var meal models.GeneratedMeal
	if err := json.Unmarshal([]byte(content), &meal); err != nil {
		return nil, usage, fmt.Errorf("%w: %v", ErrAIBadResponse, err)
	}
	if meal.Title == "" {
		return nil, usage, ErrAIEmptyResponse
	}

	return &meal, usage, nil
}

// complete performs one chat completion round-trip
func (s *OpenAIService) complete(ctx context.Context, system, user string) (string, models.AIUsage, error) {
	var usage models.AIUsage

	body, err := json.Marshal(chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    0.7,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", usage, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(body))
	if err != nil {
		return "", usage, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", usage, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", usage, fmt.Errorf("failed to decode openai response: %w", err)
	}

	usage.Calls = 1
	usage.PromptTokens = parsed.Usage.PromptTokens
	usage.CompletionTokens = parsed.Usage.CompletionTokens
	usage.TotalTokens = parsed.Usage.TotalTokens

	if parsed.Error != nil {
		return "", usage, fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", usage, fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", usage, ErrAIEmptyResponse
	}

	return parsed.Choices[0].Message.Content, usage, nil
}

// HashPreferences returns the cache key hash for a preferences string
func HashPreferences(preferences string) string {
	normalized := strings.ToLower(strings.TrimSpace(preferences))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
