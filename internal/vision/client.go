package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SreeHarith/ocr-app/pkg/logger"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "qwen/qwen2.5-vl-72b-instruct:free"
)

// The model is instructed to answer with nothing but a JSON array; the reply
// is still treated as untrusted input and parsed leniently.
const extractionPrompt = `You are an expert OCR system. Analyze the entire image and find ALL names and phone numbers. You MUST return ONLY a single, clean JSON array. Each object must have two keys: "name" and "phone". Example: [{"name": "John Doe", "phone": "111-222-3300"}]`

// Contact is one name/phone pair extracted from an image.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Client calls a hosted vision model to extract contacts from an image URL.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(baseURL, apiKey, model string, httpClient *http.Client, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		log:        log,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []messagePart `json:"content"`
}

type messagePart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractContacts sends the image to the vision model and parses its reply
// into contact candidates. Entries with neither a name nor a phone are
// dropped rather than admitted into the pipeline.
func (c *Client) ExtractContacts(ctx context.Context, publicImageURL string) ([]Contact, error) {
	reqID := uuid.New().String()
	start := time.Now()

	c.log.Info("Vision extraction started",
		"req_id", reqID,
		"model", c.model,
	)

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []messagePart{
					{Type: "text", Text: extractionPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: publicImageURL}},
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build vision request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vision response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision model returned status %d: %s", resp.StatusCode, truncate(raw, 512))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("vision response contained no choices")
	}

	contacts, err := ParseModelReply(cr.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.log.Info("Vision extraction completed",
		"req_id", reqID,
		"contacts", len(contacts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return contacts, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
