package service

import (
	"context"
	"errors"

	"github.com/SreeHarith/ocr-app/internal/classify"
	contactserrors "github.com/SreeHarith/ocr-app/internal/contacts/errors"
	"github.com/SreeHarith/ocr-app/internal/contacts/repository"
	"github.com/SreeHarith/ocr-app/internal/contacts/validator"
	"github.com/SreeHarith/ocr-app/internal/events"
	"github.com/SreeHarith/ocr-app/internal/normalize"
	"github.com/SreeHarith/ocr-app/pkg/config"
	apperrors "github.com/SreeHarith/ocr-app/pkg/errors"
	"github.com/SreeHarith/ocr-app/pkg/model"
	"github.com/SreeHarith/ocr-app/pkg/sanitizer"
)

type ContactService interface {
	GetAll(ctx context.Context) ([]*model.Contact, error)
	SaveAll(ctx context.Context, contacts []model.Contact) (int, []string, error)
	Update(ctx context.Context, id string, contact *model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, id string) error

	// Validate classifies a batch without persisting anything.
	Validate(ctx context.Context, batch []model.Contact) ([]model.Contact, error)

	// PersistedPhones maps each phone that exists in the store to the name
	// it is stored under.
	PersistedPhones(ctx context.Context, phones []string) (map[string]string, error)
}

type contactService struct {
	repo       repository.ContactRepository
	validator  *validator.ContactValidator
	classifier *classify.Classifier
	publisher  *events.Publisher
	cfg        *config.Config
}

func NewContactService(
	repo repository.ContactRepository,
	contactValidator *validator.ContactValidator,
	classifier *classify.Classifier,
	publisher *events.Publisher,
	cfg *config.Config,
) ContactService {
	return &contactService{
		repo:       repo,
		validator:  contactValidator,
		classifier: classifier,
		publisher:  publisher,
		cfg:        cfg,
	}
}

func (s *contactService) GetAll(ctx context.Context) ([]*model.Contact, error) {
	contacts, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list contacts", "error", err)
		return nil, apperrors.Internal("Failed to list contacts", err)
	}
	return contacts, nil
}

// SaveAll persists a confirmed batch. Every record must already carry a
// canonical phone; a record that fails validation rejects the whole batch
// so a partial import never happens.
func (s *contactService) SaveAll(ctx context.Context, contacts []model.Contact) (int, []string, error) {
	if len(contacts) == 0 {
		return 0, nil, apperrors.InvalidInput("No contacts to save")
	}

	docs := make([]model.Contact, len(contacts))
	for i := range contacts {
		c := contacts[i].Stored()
		c.ID = ""
		c.Name = sanitizer.NormalizeName(c.Name)
		if c.Gender == "" {
			c.Gender = model.GenderUnknown
		}

		if err := s.validator.Validate(&c); err != nil {
			s.cfg.Log.Warn("Contact rejected during save",
				"index", i,
				"name", c.Name,
				"error", err,
			)
			return 0, nil, apperrors.Validation("Contact validation failed", map[string]any{
				"index": i,
				"error": err.Error(),
			})
		}
		docs[i] = c
	}

	ids, err := s.repo.CreateMany(ctx, docs)
	if err != nil {
		s.cfg.Log.Error("Failed to save contacts", "count", len(docs), "error", err)
		return 0, nil, apperrors.Internal("Failed to save contacts", err)
	}

	s.publisher.ContactsSaved(ctx, ids, docs)
	s.cfg.Log.Info("Contacts saved", "count", len(ids))
	return len(ids), ids, nil
}

// Update rewrites a stored contact from edit-dialog input. The phone is
// re-normalized here because the caller sends whatever the user typed.
func (s *contactService) Update(ctx context.Context, id string, contact *model.Contact) (*model.Contact, error) {
	updated := contact.Stored()
	updated.ID = id
	updated.Name = sanitizer.NormalizeName(updated.Name)

	if updated.Name == "" {
		return nil, apperrors.InvalidInput("Name is required")
	}
	if sanitizer.TrimAndNormalize(updated.Phone) == "" {
		return nil, apperrors.InvalidInput("Phone is required")
	}

	phone := normalize.NormalizePhone(updated.Phone, normalize.PhoneOptions{
		DefaultRegion: s.cfg.DefaultPhoneRegion,
		MobileOnly:    s.cfg.MobileOnly,
	})
	if !phone.Valid {
		return nil, apperrors.InvalidInput(phone.Reason)
	}
	updated.Phone = phone.E164

	updated.Birthday = normalize.NormalizeDate(updated.Birthday)
	updated.Anniversary = normalize.NormalizeDate(updated.Anniversary)
	if updated.Gender == "" {
		updated.Gender = model.GenderUnknown
	}

	if err := s.validator.Validate(&updated); err != nil {
		return nil, apperrors.Validation("Contact validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, &updated); err != nil {
		return nil, s.mapRepoError(err, id, "update")
	}

	s.cfg.Log.Info("Contact updated", "contact_id", id)
	return &updated, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "delete")
	}

	s.publisher.ContactDeleted(ctx, id)
	s.cfg.Log.Info("Contact deleted", "contact_id", id)
	return nil
}

func (s *contactService) Validate(ctx context.Context, batch []model.Contact) ([]model.Contact, error) {
	persisted, err := s.PersistedPhones(ctx, s.classifier.CanonicalPhones(batch))
	if err != nil {
		return nil, err
	}
	return s.classifier.Classify(ctx, batch, persisted), nil
}

func (s *contactService) PersistedPhones(ctx context.Context, phones []string) (map[string]string, error) {
	existing, err := s.repo.FindByPhones(ctx, phones)
	if err != nil {
		s.cfg.Log.Error("Failed to look up phones", "count", len(phones), "error", err)
		return nil, apperrors.Internal("Failed to look up phones", err)
	}

	persisted := make(map[string]string, len(existing))
	for _, contact := range existing {
		persisted[contact.Phone] = contact.Name
	}
	return persisted, nil
}

func (s *contactService) mapRepoError(err error, id, op string) error {
	switch {
	case errors.Is(err, contactserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Contact", id)
	case errors.Is(err, contactserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid contact ID: " + id)
	default:
		s.cfg.Log.Error("Contact repository operation failed",
			"operation", op,
			"contact_id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to "+op+" contact", err)
	}
}
