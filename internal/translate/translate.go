package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const translateRequestTimeout = 10 * time.Second

// Translator provides translation lookups through the free Google Translate endpoint
type Translator struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new translator
func New() *Translator {
	return &Translator{
		baseURL:    "https://translate.googleapis.com/translate_a/single",
		httpClient: &http.Client{Timeout: translateRequestTimeout},
	}
}

// Translate translates text into the target language (source detected automatically).
// On any failure it returns the original text unchanged; translation is never
// allowed to break the calling flow.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) string {
	result, err := t.translate(ctx, text, targetLang)
	if err != nil {
		return text
	}
	return result
}

func (t *Translator) translate(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	fullURL := t.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %v", err)
	}

	// The endpoint returns nested JSON arrays; the translated text is the
	// first element of each segment in the first array.
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("failed to decode segments: %v", err)
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("empty translation result")
	}
	return result, nil
}

// ContainsGermanCharacters reports whether the text looks German (umlauts or eszett).
// Used to decide the translation direction for mixed-language input.
func ContainsGermanCharacters(text string) bool {
	return strings.ContainsAny(text, "äöüßÄÖÜ")
}
