package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const receiptPrompt = "Extract from this purchase receipt: amount (the total, as a number) " +
	"and merchant (the store name).\n" +
	"Return STRICT JSON only, no commentary, no Markdown, no code fences.\n" +
	"Format: {\"amount\": 23.50, \"merchant\": \"KFC\"}\n" +
	"Omit a field entirely if it cannot be read."

// GeminiExtractor implements Extractor over the Gemini vision API.
type GeminiExtractor struct {
	client  *genai.Client
	httpc   *http.Client
	model   string
	timeout time.Duration
	log     *zap.Logger
}

// NewGemini builds a Gemini-backed extractor. The timeout bounds the whole
// extraction attempt, image download included.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, log *zap.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiExtractor{
		client:  client,
		httpc:   &http.Client{Timeout: timeout},
		model:   model,
		timeout: timeout,
		log:     log,
	}, nil
}

// Extract downloads the receipt image and asks the model for amount and
// merchant. Every failure mode collapses into ErrNoData: the caller treats
// "adapter declined" uniformly and degrades to a manual-entry prompt.
func (g *GeminiExtractor) Extract(ctx context.Context, imageURL string) (Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	imgBytes, mimeType, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		g.log.Warn("receipt image fetch failed", zap.Error(err))
		return Receipt{}, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: receiptPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     imgBytes,
					},
				},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		g.log.Warn("receipt extraction call failed", zap.Error(err))
		return Receipt{}, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	raw := resp.Text()
	if raw == "" {
		return Receipt{}, fmt.Errorf("%w: empty model response", ErrNoData)
	}

	receipt, err := decodeReceipt(raw)
	if err != nil {
		g.log.Warn("receipt response malformed", zap.Error(err), zap.String("raw", raw))
		return Receipt{}, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	return receipt, nil
}

func (g *GeminiExtractor) fetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, "", err
	}
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return body, mimeType, nil
}

// decodeReceipt parses the model's JSON, tolerating Markdown fences and both
// numeric and string amount values.
func decodeReceipt(raw string) (Receipt, error) {
	clean := cleanModelJSON(raw)

	dec := json.NewDecoder(strings.NewReader(clean))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Receipt{}, fmt.Errorf("unmarshal receipt JSON: %w", err)
	}

	var r Receipt
	if v, ok := fields["amount"]; ok && v != nil {
		r.Amount = fmt.Sprint(v)
	}
	if v, ok := fields["merchant"]; ok && v != nil {
		if s, ok := v.(string); ok {
			r.Merchant = s
		}
	}
	return r, nil
}

// cleanModelJSON strips ```json fences when the model ignores instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
