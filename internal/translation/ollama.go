package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const fromEnglishPrompt = `You are a translator. Translate the following English text to %[1]s.
RULES:
- Output ONLY the %[1]s translation, nothing else.
- Keep financial terms (SIP, EMI, UPI, PPF, NPS, CIBIL) in English.
- Keep ₹ amounts in digits (₹5000).
- Use simple, conversational %[1]s. Avoid overly formal vocabulary.
- Keep emoji as-is.
- Preserve markdown formatting (bullet points, bold text).`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// OllamaTranslator translates through the chat endpoint of an Ollama server
type OllamaTranslator struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaTranslator creates a translator talking to baseURL with model.
// Each request is bounded by timeout.
func NewOllamaTranslator(baseURL, model string, timeout time.Duration) *OllamaTranslator {
	return &OllamaTranslator{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Client exposes the underlying HTTP client so its transport can be swapped
func (t *OllamaTranslator) Client() *http.Client {
	return t.client
}

func (t *OllamaTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if targetLang == DefaultLanguage || strings.TrimSpace(text) == "" {
		return text, nil
	}
	langName, ok := SupportedLanguages[targetLang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, targetLang)
	}

	body, err := json.Marshal(chatRequest{
		Model: t.model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(fromEnglishPrompt, langName)},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("translation failed: %s", out.Error)
	}
	translated := strings.TrimSpace(out.Message.Content)
	if translated == "" {
		return "", fmt.Errorf("translation to %s returned empty text", targetLang)
	}
	return translated, nil
}
