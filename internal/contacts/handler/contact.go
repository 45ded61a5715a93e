package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/SreeHarith/ocr-app/internal/contacts/service"
	"github.com/SreeHarith/ocr-app/internal/csvio"
	"github.com/SreeHarith/ocr-app/internal/review"
	apperrors "github.com/SreeHarith/ocr-app/pkg/errors"
	httputil "github.com/SreeHarith/ocr-app/pkg/http"
	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

type ContactHandler struct {
	service service.ContactService
	review  *review.Service
	log     *logger.Logger
}

func NewContactHandler(service service.ContactService, reviewService *review.Service, log *logger.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		review:  reviewService,
		log:     log,
	}
}

type saveResponse struct {
	Saved int      `json:"saved"`
	IDs   []string `json:"ids"`
}

func (h *ContactHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	contacts, err := h.service.GetAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	// An empty store must encode as [], never null.
	if contacts == nil {
		contacts = []*model.Contact{}
	}
	if err := httputil.WriteSuccess(w, contacts); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

// Save persists an already-reviewed batch directly, bypassing the review
// screen. Used by API clients that do their own confirmation. The body is
// a bare JSON array of contacts.
func (h *ContactHandler) Save(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var contacts []model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contacts); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Save", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	count, ids, err := h.service.SaveAll(r.Context(), contacts)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Save", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, saveResponse{Saved: count, IDs: ids}); err != nil {
		h.log.Error("failed to write created response", "handler", "Save", "operation", "WriteCreated", "error", err)
	}
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var contact model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	updated, err := h.service.Update(r.Context(), id, &contact)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

// Validate classifies a batch against the store without saving anything.
// It takes a bare JSON array and returns the same array annotated with a
// status and message per contact.
func (h *ContactHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var contacts []model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contacts); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Validate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	classified, err := h.service.Validate(r.Context(), contacts)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Validate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if classified == nil {
		classified = []model.Contact{}
	}
	if err := httputil.WriteSuccess(w, classified); err != nil {
		h.log.Error("failed to write success response", "handler", "Validate", "operation", "WriteSuccess", "error", err)
	}
}

// Export streams the full contact list as a CSV download.
func (h *ContactHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	contacts, err := h.service.GetAll(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Export", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	records := make([]model.Contact, len(contacts))
	for i, c := range contacts {
		records[i] = *c
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="contacts.csv"`)
	if err := csvio.Write(w, records); err != nil {
		h.log.Error("failed to write CSV export", "handler", "Export", "error", err)
	}
}

// Import parses an uploaded CSV and opens a review session over it.
func (h *ContactHandler) Import(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	file, _, err := r.FormFile("file")
	if err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "A CSV file is required in the 'file' form field",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Import", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	defer file.Close()

	records, err := csvio.Parse(file)
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(err.Error())); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Import", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	snapshot, err := h.review.Open(r.Context(), review.ModeCSV, records)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Import", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, snapshot); err != nil {
		h.log.Error("failed to write created response", "handler", "Import", "operation", "WriteCreated", "error", err)
	}
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/contacts", h.GetAll)
	router.POST("/api/v1/contacts", h.Save)
	router.PUT("/api/v1/contacts/:id", h.Update)
	router.DELETE("/api/v1/contacts/:id", h.Delete)
	router.POST("/api/v1/contacts/validate", h.Validate)
	router.GET("/api/v1/contacts/export", h.Export)
	router.POST("/api/v1/contacts/import", h.Import)
}
