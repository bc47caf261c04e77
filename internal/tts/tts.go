package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const ttsRequestTimeout = 10 * time.Second

// Service converts text to speech using the free Google Translate TTS endpoint
type Service struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new TTS service
func New() *Service {
	return &Service{
		baseURL:    "https://translate.google.com/translate_tts",
		httpClient: &http.Client{Timeout: ttsRequestTimeout},
	}
}

// Synthesize converts text to MP3 audio in the given language.
// slow lowers the playback speed for learners.
func (s *Service) Synthesize(ctx context.Context, text, lang string, slow bool) ([]byte, error) {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", lang)
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))
	if slow {
		params.Set("ttsspeed", "0.3")
	}

	fullURL := s.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; deutschbot/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS endpoint returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %v", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("TTS endpoint returned no audio")
	}

	return audio, nil
}
