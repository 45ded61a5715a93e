package imagehost

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/SreeHarith/ocr-app/pkg/logger"
)

const (
	DefaultBaseURL = "https://api.cloudinary.com/v1_1"

	uploadFolder = "ocr-uploads"

	// Downscale to at most 1200x1200 and convert to JPG server-side, so the
	// vision model always receives a format it accepts (phones commonly
	// produce HEIC).
	uploadTransformation = "c_limit,h_1200,w_1200/f_jpg,q_auto:good"
)

var reHeicSuffix = regexp.MustCompile(`(?i)\.heic$`)

// Client relays uploaded images to Cloudinary and returns their public URL.
type Client struct {
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(baseURL, cloudName, apiKey, apiSecret string, httpClient *http.Client, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		cloudName:  cloudName,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		httpClient: httpClient,
		log:        log,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image through a signed upload with the size-limiting,
// JPG-normalizing transformation and returns the resulting public URL.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		"api_key":        c.apiKey,
		"timestamp":      timestamp,
		"folder":         uploadFolder,
		"transformation": uploadTransformation,
		"signature":      c.sign(timestamp),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", fmt.Errorf("failed to write upload field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create upload form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to copy image into upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload request: %w", err)
	}

	uploadBytes := body.Len()
	endpoint := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	var ur uploadResponse
	if err := json.Unmarshal(raw, &ur); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || ur.SecureURL == "" {
		return "", fmt.Errorf("image host rejected upload (status %d): %s", resp.StatusCode, ur.Error.Message)
	}

	c.log.Info("Image uploaded",
		"public_id", ur.PublicID,
		"bytes", uploadBytes,
	)

	// The secure URL may still point at the original HEIC; the transformed
	// JPG lives at the same path with the extension swapped.
	return reHeicSuffix.ReplaceAllString(ur.SecureURL, ".jpg"), nil
}

// sign produces the Cloudinary request signature: the SHA-1 of the
// alphabetically ordered signed parameters concatenated with the API secret.
func (c *Client) sign(timestamp string) string {
	toSign := fmt.Sprintf("folder=%s&timestamp=%s&transformation=%s%s",
		uploadFolder, timestamp, uploadTransformation, c.apiSecret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
