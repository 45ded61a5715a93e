package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SreeHarith/ocr-app/internal/classify"
	"github.com/SreeHarith/ocr-app/internal/normalize"
	"github.com/SreeHarith/ocr-app/internal/review"
	apperrors "github.com/SreeHarith/ocr-app/pkg/errors"
	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

type mockContactService struct {
	getAllFunc   func(ctx context.Context) ([]*model.Contact, error)
	saveAllFunc  func(ctx context.Context, contacts []model.Contact) (int, []string, error)
	updateFunc   func(ctx context.Context, id string, contact *model.Contact) (*model.Contact, error)
	deleteFunc   func(ctx context.Context, id string) error
	validateFunc func(ctx context.Context, batch []model.Contact) ([]model.Contact, error)
}

func (m *mockContactService) GetAll(ctx context.Context) ([]*model.Contact, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx)
	}
	return []*model.Contact{}, nil
}

func (m *mockContactService) SaveAll(ctx context.Context, contacts []model.Contact) (int, []string, error) {
	if m.saveAllFunc != nil {
		return m.saveAllFunc(ctx, contacts)
	}
	return len(contacts), make([]string, len(contacts)), nil
}

func (m *mockContactService) Update(ctx context.Context, id string, contact *model.Contact) (*model.Contact, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, contact)
	}
	return contact, nil
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockContactService) Validate(ctx context.Context, batch []model.Contact) ([]model.Contact, error) {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, batch)
	}
	return batch, nil
}

func (m *mockContactService) PersistedPhones(ctx context.Context, phones []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func testLog() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard, Service: "test"})
}

func newTestRouter(t *testing.T, svc *mockContactService) *httprouter.Router {
	t.Helper()
	log := testLog()
	classifier := classify.New(normalize.PhoneOptions{DefaultRegion: "IN"}, nil, log)
	store := review.NewStore(time.Minute)
	t.Cleanup(store.Stop)
	reviewService := review.NewService(store, classifier, svc, svc, log)

	router := httprouter.New()
	NewContactHandler(svc, reviewService, log).RegisterRoutes(router)
	NewReviewHandler(reviewService, log).RegisterRoutes(router)
	return router
}

func TestGetAllWritesContactList(t *testing.T) {
	router := newTestRouter(t, &mockContactService{
		getAllFunc: func(context.Context) ([]*model.Contact, error) {
			return []*model.Contact{{ID: "68a000000000000000000001", Name: "Asha", Phone: "+919876543210"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var contacts []model.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "Asha", contacts[0].Name)
}

func TestGetAllEmptyStoreWritesEmptyArray(t *testing.T) {
	router := newTestRouter(t, &mockContactService{
		getAllFunc: func(context.Context) ([]*model.Contact, error) {
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSaveAcceptsBareArrayBody(t *testing.T) {
	var received []model.Contact
	router := newTestRouter(t, &mockContactService{
		saveAllFunc: func(_ context.Context, contacts []model.Contact) (int, []string, error) {
			received = contacts
			return len(contacts), []string{"68a000000000000000000001"}, nil
		},
	})

	body := strings.NewReader(`[{"name":"Asha","phone":"+919876543210"}]`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contacts", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, received, 1)
	assert.Equal(t, "Asha", received[0].Name)

	var resp struct {
		Saved int      `json:"saved"`
		IDs   []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Saved)
	assert.Equal(t, []string{"68a000000000000000000001"}, resp.IDs)
}

func TestValidateReturnsBareAnnotatedArray(t *testing.T) {
	router := newTestRouter(t, &mockContactService{
		validateFunc: func(_ context.Context, batch []model.Contact) ([]model.Contact, error) {
			for i := range batch {
				batch[i].Status = model.StatusNew
				batch[i].Message = "Ready to import."
			}
			return batch, nil
		},
	})

	body := strings.NewReader(`[{"name":"Asha","phone":"+919876543210"}]`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contacts/validate", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var classified []model.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classified))
	require.Len(t, classified, 1)
	assert.Equal(t, model.StatusNew, classified[0].Status)
	assert.Equal(t, "Ready to import.", classified[0].Message)
}

func TestUpdateRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t, &mockContactService{})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/contacts/68a000000000000000000001", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateMapsServiceErrorToStatus(t *testing.T) {
	router := newTestRouter(t, &mockContactService{
		updateFunc: func(_ context.Context, id string, _ *model.Contact) (*model.Contact, error) {
			return nil, apperrors.NotFoundWithID("Contact", id)
		},
	})

	body := strings.NewReader(`{"name":"Asha","phone":"+919876543210"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/contacts/68a000000000000000000001", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteReturnsNoContent(t *testing.T) {
	router := newTestRouter(t, &mockContactService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/contacts/68a000000000000000000001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportSetsCSVHeaders(t *testing.T) {
	router := newTestRouter(t, &mockContactService{
		getAllFunc: func(context.Context) ([]*model.Contact, error) {
			return []*model.Contact{{Name: "Asha", Phone: "+919876543210", Gender: model.GenderFemale}}, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/contacts/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Asha")
}

func TestImportOpensCSVReviewSession(t *testing.T) {
	router := newTestRouter(t, &mockContactService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "contacts.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,phone\nAsha,98765 43210\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contacts/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var snapshot review.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, review.ModeCSV, snapshot.Mode)
	require.Len(t, snapshot.Records, 1)
	assert.Equal(t, model.StatusNew, snapshot.Records[0].Status)
	assert.Equal(t, []int{0}, snapshot.Selection)
}

func TestReviewLifecycleOverHTTP(t *testing.T) {
	saved := 0
	router := newTestRouter(t, &mockContactService{
		saveAllFunc: func(_ context.Context, contacts []model.Contact) (int, []string, error) {
			saved = len(contacts)
			return len(contacts), []string{"68a000000000000000000001"}, nil
		},
	})

	// Open a manual session with one bad row.
	body := strings.NewReader(`{"mode":"manual","records":[{"name":"","phone":"98765 43210"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/review", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var snapshot review.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	require.Equal(t, model.StatusInvalid, snapshot.Records[0].Status)

	// Saving is refused while the row is invalid.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/review/"+snapshot.ID+"/save", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Fix the row, then save.
	rec = httptest.NewRecorder()
	editBody := strings.NewReader(`{"field":"name","value":"Asha"}`)
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/review/"+snapshot.ID+"/rows/0", editBody))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/review/"+snapshot.ID+"/save", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, saved)

	// The session is gone afterwards.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/review/"+snapshot.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewUnknownSessionReturnsNotFound(t *testing.T) {
	router := newTestRouter(t, &mockContactService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/review/no-such-session", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
