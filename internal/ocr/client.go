package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jo-hoe/docscan/internal/settings"
)

// ErrNoText is returned when the service responds successfully but finds no
// text in the image.
var ErrNoText = errors.New("no text recognized in image")

const defaultTimeout = 30 * time.Second

type extractRequest struct {
	ImageBase64 string `json:"image_base64"`
	Language    string `json:"language,omitempty"`
}

type extractResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// Client calls the hosted OCR service that turns document images into text.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ExtractText submits an image and returns the recognized text. The
// language hint is omitted for auto-detection.
func (c *Client) ExtractText(ctx context.Context, image []byte, lang settings.Language) (string, error) {
	request := extractRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
	}
	if lang != settings.LanguageAuto {
		request.Language = string(lang)
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	slog.Debug("submitting image for text extraction",
		"endpoint", c.endpoint, "image_bytes", len(image), "language", lang)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OCR request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read OCR response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("OCR service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result extractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode OCR response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("OCR service error: %s", result.Error)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
