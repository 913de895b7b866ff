package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
)

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Client translates short author-entered text for the search caches. It is
// best-effort: callers must treat any error as "no translation available".
type Client interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

type httpClient struct {
	apiKey   string
	endpoint string
	hc       *http.Client
	log      *logger.Logger
}

func New(apiKey string, baseLog *logger.Logger) Client {
	if apiKey == "" {
		return noopClient{}
	}
	return &httpClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		hc:       &http.Client{Timeout: 10 * time.Second},
		log:      baseLog.With("client", "TranslateClient"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (c *httpClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(translateRequest{Q: text, Source: source, Target: target, Format: "text"})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate request failed with status %d", resp.StatusCode)
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Data.Translations) == 0 {
		return "", fmt.Errorf("translate response contained no translations")
	}
	return out.Data.Translations[0].TranslatedText, nil
}

type noopClient struct{}

func (noopClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	return "", fmt.Errorf("translation not configured")
}
