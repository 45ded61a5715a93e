package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SreeHarith/ocr-app/internal/imagehost"
	"github.com/SreeHarith/ocr-app/internal/vision"
)

func TestExtractWithoutVisionSkipsUpload(t *testing.T) {
	uploads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads++
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"secure_url":"https://cdn.example.com/card.jpg"}`)); err != nil {
			t.Errorf("failed to write upload response: %v", err)
		}
	}))
	defer server.Close()

	host := imagehost.NewClient(server.URL, "demo", "key", "secret", server.Client(), testLog())
	h := NewOCRHandler(nil, host, nil, testLog())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "card.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Extract(rec, req, nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 0, uploads, "the image must not be uploaded when no vision model is configured")
}

func TestExtractRequiresImageURLInJSONBody(t *testing.T) {
	visionClient := vision.NewClient("http://localhost:0", "key", "test-model", http.DefaultClient, testLog())
	h := NewOCRHandler(visionClient, nil, nil, testLog())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Extract(rec, req, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
