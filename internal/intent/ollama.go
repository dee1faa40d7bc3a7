package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nimbus-assistant/nimbus/internal/httpkit"
)

// classifierInstructions is the fixed instruction text handed to the
// model. It encodes the delegation policy the coordinator expects:
// one capability per turn, substantive requests beating smalltalk.
const classifierInstructions = `You are the intent classifier for a weather assistant with five capabilities:
- "weather": current weather conditions for a city (e.g. "weather in London")
- "forecast": weather for upcoming days (e.g. "forecast for Paris", "next 5 days")
- "time": current local time in a city (e.g. "what time is it in Tokyo?")
- "greeting": simple greetings like "Hi" or "Hello"
- "farewell": simple goodbyes like "Bye" or "See you"

Selection priorities:
1. If a message contains both a greeting AND a substantive request (weather, forecast, or time), pick the substantive request. Never pick "greeting" or "farewell" unless the message is SOLELY a greeting or SOLELY a farewell.
2. Time questions ("what time...") are "time". Forecast questions (forecast, upcoming days, next N days) are "forecast". Any other weather phrasing is "weather".
3. If none apply, answer "none".

Reply with a single JSON object and nothing else:
{"intent": "weather|forecast|time|greeting|farewell|none", "city": "<city or empty>", "days": <number or 0>, "name": "<name or empty>"}
If the user does not name a city, leave "city" empty; the system substitutes their preferred city.`

// OllamaClassifier asks a local model for the intent verdict, falling
// back to the keyword classifier when the model is unreachable or its
// answer cannot be parsed into the closed variant.
type OllamaClassifier struct {
	baseURL    string
	model      string
	httpClient *http.Client
	fallback   *KeywordClassifier
	logger     *slog.Logger
}

// NewOllamaClassifier creates a model-backed classifier.
func NewOllamaClassifier(baseURL, model string, logger *slog.Logger) *OllamaClassifier {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OllamaClassifier{
		baseURL: baseURL,
		model:   model,
		httpClient: httpkit.NewClient(httpkit.WithTimeout(30 * time.Second)),
		fallback: NewKeywordClassifier(),
		logger:   logger,
	}
}

// chatMessage is the request/response message format for the chat API.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Classify sends the utterance to the model and parses its verdict.
// Failures degrade to the keyword classifier rather than erroring: an
// unreachable model should not take the assistant down with it.
func (c *OllamaClassifier) Classify(ctx context.Context, utterance string) (Classification, error) {
	verdict, err := c.ask(ctx, utterance)
	if err != nil {
		c.logger.Warn("model classification failed, using keyword fallback", "error", err)
		return c.fallback.Classify(ctx, utterance)
	}
	return verdict, nil
}

func (c *OllamaClassifier) ask(ctx context.Context, utterance string) (Classification, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: classifierInstructions},
			{Role: "user", Content: utterance},
		},
		Stream: false,
		Format: "json",
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return Classification{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return Classification{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Classification{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Classification{}, fmt.Errorf("API error %d: %s", resp.StatusCode, httpkit.ReadErrorBody(resp.Body, 4096))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return Classification{}, fmt.Errorf("decode response: %w", err)
	}

	verdict, err := parseVerdict(chatResp.Message.Content)
	if err != nil {
		return Classification{}, fmt.Errorf("parse verdict: %w", err)
	}
	return verdict, nil
}

// parseVerdict extracts the JSON verdict from model output. Models often
// wrap JSON in code fences or commentary, so everything outside the
// outermost braces is discarded before unmarshalling.
func parseVerdict(content string) (Classification, error) {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return Classification{}, fmt.Errorf("no JSON object in %q", content)
	}

	var verdict Classification
	if err := json.Unmarshal([]byte(content[start:end+1]), &verdict); err != nil {
		return Classification{}, err
	}

	verdict.Intent = Intent(strings.ToLower(string(verdict.Intent)))
	if !verdict.Intent.Valid() {
		return Classification{}, fmt.Errorf("unknown intent %q", verdict.Intent)
	}
	return verdict, nil
}
