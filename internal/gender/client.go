package gender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

const DefaultBaseURL = "https://gender-api.com"

// Client looks up the likely gender for a first name via gender-api.com.
// Callers treat every failure as soft; the classifier falls back to unknown.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(baseURL, apiKey string, httpClient *http.Client, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		log:        log,
	}
}

type lookupResponse struct {
	Gender string `json:"gender"`
	Errno  int    `json:"errno"`
	Errmsg string `json:"errmsg"`
}

func (c *Client) Infer(ctx context.Context, firstName string) (model.Gender, error) {
	endpoint := fmt.Sprintf("%s/get?name=%s&key=%s",
		c.baseURL, url.QueryEscape(firstName), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.GenderUnknown, fmt.Errorf("failed to build gender lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.GenderUnknown, fmt.Errorf("gender lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.GenderUnknown, fmt.Errorf("failed to read gender lookup response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return model.GenderUnknown, fmt.Errorf("gender lookup returned status %d", resp.StatusCode)
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return model.GenderUnknown, fmt.Errorf("failed to decode gender lookup response: %w", err)
	}
	if lr.Errno != 0 {
		return model.GenderUnknown, fmt.Errorf("gender lookup error %d: %s", lr.Errno, lr.Errmsg)
	}

	switch lr.Gender {
	case "male":
		return model.GenderMale, nil
	case "female":
		return model.GenderFemale, nil
	default:
		return model.GenderUnknown, nil
	}
}
