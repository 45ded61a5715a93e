package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/SreeHarith/ocr-app/internal/review"
	apperrors "github.com/SreeHarith/ocr-app/pkg/errors"
	httputil "github.com/SreeHarith/ocr-app/pkg/http"
	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

type ReviewHandler struct {
	review *review.Service
	log    *logger.Logger
}

func NewReviewHandler(reviewService *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		review: reviewService,
		log:    log,
	}
}

type openReviewRequest struct {
	Mode    review.Mode     `json:"mode"`
	Records []model.Contact `json:"records"`
}

type editRowRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type selectionRequest struct {
	Indexes []int `json:"indexes"`
}

// Open starts a review session over caller-supplied records, typically
// manual entry.
func (h *ReviewHandler) Open(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req openReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Open", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	if req.Mode == "" {
		req.Mode = review.ModeManual
	}

	snapshot, err := h.review.Open(r.Context(), req.Mode, req.Records)
	if err != nil {
		h.writeError(w, "Open", err)
		return
	}

	if err := httputil.WriteCreated(w, snapshot); err != nil {
		h.log.Error("failed to write created response", "handler", "Open", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snapshot, err := h.review.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Get", err)
		return
	}

	if err := httputil.WriteSuccess(w, snapshot); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) EditRow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := rowIndex(ps)
	if err != nil {
		h.writeError(w, "EditRow", err)
		return
	}

	var req editRowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "EditRow", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	snapshot, err := h.review.EditField(r.Context(), ps.ByName("id"), index, req.Field, req.Value)
	if err != nil {
		h.writeError(w, "EditRow", err)
		return
	}

	if err := httputil.WriteSuccess(w, snapshot); err != nil {
		h.log.Error("failed to write success response", "handler", "EditRow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) AddRow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snapshot, err := h.review.AddRow(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "AddRow", err)
		return
	}

	if err := httputil.WriteSuccess(w, snapshot); err != nil {
		h.log.Error("failed to write success response", "handler", "AddRow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) RemoveRow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := rowIndex(ps)
	if err != nil {
		h.writeError(w, "RemoveRow", err)
		return
	}

	snapshot, err := h.review.RemoveRow(r.Context(), ps.ByName("id"), index)
	if err != nil {
		h.writeError(w, "RemoveRow", err)
		return
	}

	if err := httputil.WriteSuccess(w, snapshot); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveRow", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) RemoveDuplicates(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snapshot, err := h.review.RemoveDuplicates(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "RemoveDuplicates", err)
		return
	}

	if err := httputil.WriteSuccess(w, snapshot); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveDuplicates", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) RemoveInvalid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snapshot, err := h.review.RemoveInvalid(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "RemoveInvalid", err)
		return
	}

	if err := httputil.WriteSuccess(w, snapshot); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveInvalid", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) SetSelection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "SetSelection", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	snapshot, err := h.review.SetSelection(r.Context(), ps.ByName("id"), req.Indexes)
	if err != nil {
		h.writeError(w, "SetSelection", err)
		return
	}

	if err := httputil.WriteSuccess(w, snapshot); err != nil {
		h.log.Error("failed to write success response", "handler", "SetSelection", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReviewHandler) Save(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.review.Save(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Save", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Save", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func rowIndex(ps httprouter.Params) (int, error) {
	index, err := strconv.Atoi(ps.ByName("index"))
	if err != nil {
		return 0, apperrors.InvalidInput("Row index must be a number")
	}
	return index, nil
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/review", h.Open)
	router.GET("/api/v1/review/:id", h.Get)
	router.PATCH("/api/v1/review/:id/rows/:index", h.EditRow)
	router.POST("/api/v1/review/:id/rows", h.AddRow)
	router.DELETE("/api/v1/review/:id/rows/:index", h.RemoveRow)
	router.POST("/api/v1/review/:id/remove-duplicates", h.RemoveDuplicates)
	router.POST("/api/v1/review/:id/remove-invalid", h.RemoveInvalid)
	router.PUT("/api/v1/review/:id/selection", h.SetSelection)
	router.POST("/api/v1/review/:id/save", h.Save)
}
