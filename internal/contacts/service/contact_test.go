package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SreeHarith/ocr-app/internal/classify"
	contactserrors "github.com/SreeHarith/ocr-app/internal/contacts/errors"
	"github.com/SreeHarith/ocr-app/internal/contacts/validator"
	"github.com/SreeHarith/ocr-app/internal/normalize"
	"github.com/SreeHarith/ocr-app/pkg/config"
	apperrors "github.com/SreeHarith/ocr-app/pkg/errors"
	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

type mockContactRepository struct {
	createManyFunc   func(ctx context.Context, contacts []model.Contact) ([]string, error)
	findAllFunc      func(ctx context.Context) ([]*model.Contact, error)
	findByPhonesFunc func(ctx context.Context, phones []string) ([]*model.Contact, error)
	updateFunc       func(ctx context.Context, id string, contact *model.Contact) error
	deleteFunc       func(ctx context.Context, id string) error
}

func (m *mockContactRepository) CreateMany(ctx context.Context, contacts []model.Contact) ([]string, error) {
	if m.createManyFunc != nil {
		return m.createManyFunc(ctx, contacts)
	}
	ids := make([]string, len(contacts))
	for i := range contacts {
		ids[i] = fmt.Sprintf("%024d", i)
	}
	return ids, nil
}

func (m *mockContactRepository) FindAll(ctx context.Context) ([]*model.Contact, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Contact{}, nil
}

func (m *mockContactRepository) FindByPhones(ctx context.Context, phones []string) ([]*model.Contact, error) {
	if m.findByPhonesFunc != nil {
		return m.findByPhonesFunc(ctx, phones)
	}
	return nil, nil
}

func (m *mockContactRepository) Update(ctx context.Context, id string, contact *model.Contact) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, contact)
	}
	return nil
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockContactRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestService(repo *mockContactRepository) ContactService {
	cfg := &config.Config{
		Log:                logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard, Service: "test"}),
		DefaultPhoneRegion: "IN",
	}
	classifier := classify.New(normalize.PhoneOptions{DefaultRegion: cfg.DefaultPhoneRegion}, nil, cfg.Log)
	return NewContactService(repo, validator.NewContactValidator(), classifier, nil, cfg)
}

func TestSaveAllNormalizesAndPersists(t *testing.T) {
	var stored []model.Contact
	repo := &mockContactRepository{
		createManyFunc: func(_ context.Context, contacts []model.Contact) ([]string, error) {
			stored = contacts
			return []string{"68a000000000000000000001", "68a000000000000000000002"}, nil
		},
	}
	svc := newTestService(repo)

	count, ids, err := svc.SaveAll(context.Background(), []model.Contact{
		{Name: "  asha   patel ", Phone: "+919876543210", Status: model.StatusNew, Message: "Ready to import."},
		{Name: "Ravi", Phone: "+919123456789", Gender: model.GenderMale},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, ids, 2)

	require.Len(t, stored, 2)
	assert.Equal(t, "Asha Patel", stored[0].Name)
	assert.Equal(t, model.GenderUnknown, stored[0].Gender)
	assert.Empty(t, stored[0].Status, "pipeline annotations must not be persisted")
	assert.Empty(t, stored[0].Message)
}

func TestSaveAllRejectsWholeBatchOnBadRecord(t *testing.T) {
	called := false
	repo := &mockContactRepository{
		createManyFunc: func(_ context.Context, contacts []model.Contact) ([]string, error) {
			called = true
			return nil, nil
		},
	}
	svc := newTestService(repo)

	_, _, err := svc.SaveAll(context.Background(), []model.Contact{
		{Name: "Asha", Phone: "+919876543210"},
		{Name: "Ravi", Phone: "not-a-phone"},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.AsAppError(err).Code)
	assert.False(t, called, "nothing may be written when any record is invalid")
}

func TestSaveAllEmptyBatch(t *testing.T) {
	svc := newTestService(&mockContactRepository{})
	_, _, err := svc.SaveAll(context.Background(), nil)
	assert.Error(t, err)
}

func TestUpdateNormalizesPhoneAndDates(t *testing.T) {
	var got *model.Contact
	repo := &mockContactRepository{
		updateFunc: func(_ context.Context, _ string, contact *model.Contact) error {
			got = contact
			return nil
		},
	}
	svc := newTestService(repo)

	updated, err := svc.Update(context.Background(), "68a000000000000000000001", &model.Contact{
		Name:     "Asha",
		Phone:    "98765 43210",
		Birthday: "12-04-1990",
	})
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", updated.Phone)
	assert.Equal(t, "1990-04-12", updated.Birthday)
	require.NotNil(t, got)
	assert.Equal(t, "+919876543210", got.Phone)
}

func TestUpdateRejectsMissingFields(t *testing.T) {
	svc := newTestService(&mockContactRepository{})

	_, err := svc.Update(context.Background(), "68a000000000000000000001", &model.Contact{Phone: "98765 43210"})
	assert.Error(t, err)

	_, err = svc.Update(context.Background(), "68a000000000000000000001", &model.Contact{Name: "Asha"})
	assert.Error(t, err)

	_, err = svc.Update(context.Background(), "68a000000000000000000001", &model.Contact{Name: "Asha", Phone: "12"})
	assert.Error(t, err)
}

func TestUpdateMapsRepositoryErrors(t *testing.T) {
	svc := newTestService(&mockContactRepository{
		updateFunc: func(_ context.Context, id string, _ *model.Contact) error {
			return fmt.Errorf("%w: %s", contactserrors.ErrNotFound, id)
		},
	})

	_, err := svc.Update(context.Background(), "68a000000000000000000001", &model.Contact{
		Name:  "Asha",
		Phone: "98765 43210",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestDeletePropagatesNotFound(t *testing.T) {
	svc := newTestService(&mockContactRepository{
		deleteFunc: func(_ context.Context, id string) error {
			return fmt.Errorf("%w: %s", contactserrors.ErrNotFound, id)
		},
	})

	err := svc.Delete(context.Background(), "68a000000000000000000001")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestValidateClassifiesAgainstStore(t *testing.T) {
	svc := newTestService(&mockContactRepository{
		findByPhonesFunc: func(_ context.Context, phones []string) ([]*model.Contact, error) {
			assert.Contains(t, phones, "+919876543210")
			return []*model.Contact{{Name: "Asha Patel", Phone: "+919876543210"}}, nil
		},
	})

	classified, err := svc.Validate(context.Background(), []model.Contact{
		{Name: "Asha", Phone: "98765 43210"},
		{Name: "Ravi", Phone: "91234 56789"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDuplicate, classified[0].Status)
	assert.Equal(t, "Already saved as 'Asha Patel'.", classified[0].Message)
	assert.Equal(t, model.StatusNew, classified[1].Status)
}

func TestPersistedPhones(t *testing.T) {
	svc := newTestService(&mockContactRepository{
		findByPhonesFunc: func(_ context.Context, _ []string) ([]*model.Contact, error) {
			return []*model.Contact{{Name: "Asha", Phone: "+919876543210"}}, nil
		},
	})

	persisted, err := svc.PersistedPhones(context.Background(), []string{"+919876543210"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"+919876543210": "Asha"}, persisted)
}
