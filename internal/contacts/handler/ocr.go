package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/SreeHarith/ocr-app/internal/imagehost"
	"github.com/SreeHarith/ocr-app/internal/review"
	"github.com/SreeHarith/ocr-app/internal/vision"
	apperrors "github.com/SreeHarith/ocr-app/pkg/errors"
	httputil "github.com/SreeHarith/ocr-app/pkg/http"
	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

// OCRHandler runs the photo ingestion path: host the image somewhere the
// vision model can fetch it, extract name/phone pairs, open a review
// session over them.
type OCRHandler struct {
	vision    *vision.Client
	imagehost *imagehost.Client
	review    *review.Service
	log       *logger.Logger
}

func NewOCRHandler(visionClient *vision.Client, imagehostClient *imagehost.Client, reviewService *review.Service, log *logger.Logger) *OCRHandler {
	return &OCRHandler{
		vision:    visionClient,
		imagehost: imagehostClient,
		review:    reviewService,
		log:       log,
	}
}

type ocrRequest struct {
	ImageURL string `json:"imageUrl"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload hosts an image and returns its public URL.
func (h *OCRHandler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	url, err := h.uploadFromForm(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Upload", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, uploadResponse{URL: url}); err != nil {
		h.log.Error("failed to write created response", "handler", "Upload", "operation", "WriteCreated", "error", err)
	}
}

// Extract accepts either a JSON body with an already-public image URL or a
// multipart upload, and answers with a fresh OCR review session.
func (h *OCRHandler) Extract(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Check before resolving: a multipart body triggers an image-host
	// upload, which is pointless if no model can read the result.
	if h.vision == nil {
		if writeErr := httputil.WriteError(w, apperrors.Unavailable("vision model", nil)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Extract", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	imageURL, err := h.resolveImageURL(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Extract", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	extracted, err := h.vision.ExtractContacts(r.Context(), imageURL)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Extract", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records := make([]model.Contact, len(extracted))
	for i, c := range extracted {
		records[i] = model.Contact{Name: c.Name, Phone: c.Phone}
	}

	snapshot, err := h.review.Open(r.Context(), review.ModeOCR, records)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Extract", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, snapshot); err != nil {
		h.log.Error("failed to write created response", "handler", "Extract", "operation", "WriteCreated", "error", err)
	}
}

func (h *OCRHandler) resolveImageURL(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return h.uploadFromForm(r)
	}

	var req ocrRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", apperrors.InvalidInput("Invalid request body")
	}
	if req.ImageURL == "" {
		return "", apperrors.InvalidInput("imageUrl is required")
	}
	return req.ImageURL, nil
}

func (h *OCRHandler) uploadFromForm(r *http.Request) (string, error) {
	if h.imagehost == nil {
		return "", apperrors.Unavailable("image hosting", nil)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", apperrors.InvalidInput("An image is required in the 'file' form field")
	}
	defer file.Close()

	url, err := h.imagehost.Upload(r.Context(), header.Filename, file)
	if err != nil {
		return "", err
	}
	return url, nil
}

func (h *OCRHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/upload", h.Upload)
	router.POST("/api/v1/ocr", h.Extract)
}
