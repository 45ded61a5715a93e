package review

import (
	"context"

	"github.com/SreeHarith/ocr-app/internal/classify"
	apperrors "github.com/SreeHarith/ocr-app/pkg/errors"
	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
)

// Editable fields on a review row.
const (
	FieldName        = "name"
	FieldPhone       = "phone"
	FieldGender      = "gender"
	FieldBirthday    = "birthday"
	FieldAnniversary = "anniversary"
)

// PhoneDirectory exposes the persisted store's canonical phones, keyed to the
// stored contact's name, for duplicate detection.
type PhoneDirectory interface {
	PersistedPhones(ctx context.Context, canonical []string) (map[string]string, error)
}

// Saver persists a confirmed batch, returning the inserted count and ids.
type Saver interface {
	SaveAll(ctx context.Context, contacts []model.Contact) (int, []string, error)
}

// Snapshot is a race-free copy of a session handed to handlers for rendering.
type Snapshot struct {
	ID        string          `json:"id"`
	Mode      Mode            `json:"mode"`
	Records   []model.Contact `json:"records"`
	Selection []int           `json:"selection"`
}

// SaveResult reports a confirmed batch's persistence outcome.
type SaveResult struct {
	Saved int      `json:"saved"`
	IDs   []string `json:"ids"`
}

// Service owns review sessions. Every mutation re-runs classification over
// the whole batch, because editing one phone number can create or resolve
// duplicates elsewhere in it; statuses are never patched incrementally.
type Service struct {
	store      *Store
	classifier *classify.Classifier
	directory  PhoneDirectory
	saver      Saver
	log        *logger.Logger
}

func NewService(store *Store, classifier *classify.Classifier, directory PhoneDirectory, saver Saver, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		classifier: classifier,
		directory:  directory,
		saver:      saver,
		log:        log,
	}
}

// Open classifies a raw batch and stores it as a new session.
func (s *Service) Open(ctx context.Context, mode Mode, batch []model.Contact) (*Snapshot, error) {
	switch mode {
	case ModeCSV, ModeOCR, ModeManual:
	default:
		return nil, apperrors.InvalidInput("Unknown review mode")
	}

	classified, err := s.runClassification(ctx, batch)
	if err != nil {
		return nil, err
	}

	sess := newSession(mode, classified)
	s.store.Put(sess)

	s.log.Info("Review session opened",
		"session_id", sess.ID,
		"mode", mode,
		"records", len(classified),
	)
	return s.snapshot(sess), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

// EditField mutates one field of one row and reclassifies the batch. In CSV
// mode a row the edit turned importable is selected again.
func (s *Service) EditField(ctx context.Context, id string, index int, field, value string) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if index < 0 || index >= len(sess.Records) {
		return nil, apperrors.InvalidInput("Row index out of range")
	}

	rec := &sess.Records[index]
	switch field {
	case FieldName:
		rec.Name = value
	case FieldPhone:
		rec.Phone = value
	case FieldGender:
		switch model.Gender(value) {
		case model.GenderMale, model.GenderFemale, model.GenderUnknown:
			rec.Gender = model.Gender(value)
		default:
			return nil, apperrors.InvalidInput("Gender must be male, female or unknown")
		}
	case FieldBirthday:
		rec.Birthday = value
	case FieldAnniversary:
		rec.Anniversary = value
	default:
		return nil, apperrors.InvalidInput("Unknown field: " + field)
	}

	if err := s.reclassifyLocked(ctx, sess); err != nil {
		return nil, err
	}
	if sess.Mode == ModeCSV && sess.Records[index].Status == model.StatusNew {
		sess.Selection[index] = struct{}{}
	}
	return s.snapshotLocked(sess), nil
}

// AddRow appends a blank record; classification marks it invalid until the
// user fills it in.
func (s *Service) AddRow(ctx context.Context, id string) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Records = append(sess.Records, model.Contact{Gender: model.GenderUnknown})
	if err := s.reclassifyLocked(ctx, sess); err != nil {
		return nil, err
	}
	return s.snapshotLocked(sess), nil
}

// RemoveRow deletes one row. The batch is reclassified because removing the
// original of an in-batch duplicate promotes the later copy.
func (s *Service) RemoveRow(ctx context.Context, id string, index int) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if index < 0 || index >= len(sess.Records) {
		return nil, apperrors.InvalidInput("Row index out of range")
	}

	i := 0
	sess.removeWhere(func(model.Contact) bool {
		drop := i == index
		i++
		return drop
	})
	if err := s.reclassifyLocked(ctx, sess); err != nil {
		return nil, err
	}
	return s.snapshotLocked(sess), nil
}

// RemoveDuplicates drops every row currently classified duplicate.
func (s *Service) RemoveDuplicates(ctx context.Context, id string) (*Snapshot, error) {
	return s.removeByStatus(ctx, id, model.StatusDuplicate)
}

// RemoveInvalid drops every row currently classified invalid.
func (s *Service) RemoveInvalid(ctx context.Context, id string) (*Snapshot, error) {
	return s.removeByStatus(ctx, id, model.StatusInvalid)
}

func (s *Service) removeByStatus(ctx context.Context, id string, status model.Status) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.removeWhere(func(rec model.Contact) bool { return rec.Status == status })
	if err := s.reclassifyLocked(ctx, sess); err != nil {
		return nil, err
	}
	return s.snapshotLocked(sess), nil
}

// SetSelection replaces the CSV-mode selection. Indexes not pointing at a
// row classified new are ignored.
func (s *Service) SetSelection(ctx context.Context, id string, indexes []int) (*Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Mode != ModeCSV {
		return nil, apperrors.InvalidInput("Selection applies only to CSV review sessions")
	}

	selection := make(map[int]struct{}, len(indexes))
	for _, i := range indexes {
		if i >= 0 && i < len(sess.Records) && sess.Records[i].Status == model.StatusNew {
			selection[i] = struct{}{}
		}
	}
	sess.Selection = selection
	return s.snapshotLocked(sess), nil
}

// Save confirms the session. CSV mode persists only the selected rows.
// OCR and manual modes refuse to save while any row is invalid, then persist
// everything except duplicates and blank leftovers. On success the session is
// discarded; on failure it stays intact for retry.
func (s *Service) Save(ctx context.Context, id string) (*SaveResult, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var toSave []model.Contact
	switch sess.Mode {
	case ModeCSV:
		sess.pruneSelection()
		for _, i := range sess.SelectedIndexes() {
			toSave = append(toSave, sess.Records[i])
		}
		if len(toSave) == 0 {
			return nil, apperrors.InvalidInput("No importable rows are selected")
		}
	default:
		invalid := 0
		for _, rec := range sess.Records {
			if rec.Status == model.StatusInvalid {
				invalid++
			}
		}
		if invalid > 0 {
			return nil, apperrors.Validation("Fix or remove invalid rows before saving", map[string]any{
				"invalid_rows": invalid,
			})
		}
		for _, rec := range sess.Records {
			if rec.Status == model.StatusDuplicate {
				continue
			}
			if rec.Name == "" && rec.Phone == "" {
				continue
			}
			toSave = append(toSave, rec)
		}
		if len(toSave) == 0 {
			return nil, apperrors.InvalidInput("Nothing to save")
		}
	}

	count, ids, err := s.saver.SaveAll(ctx, toSave)
	if err != nil {
		s.log.Error("Review session save failed",
			"session_id", sess.ID,
			"mode", sess.Mode,
			"records", len(toSave),
			"error", err,
		)
		return nil, err
	}

	s.store.Delete(sess.ID)
	s.log.Info("Review session saved",
		"session_id", sess.ID,
		"mode", sess.Mode,
		"saved", count,
	)
	return &SaveResult{Saved: count, IDs: ids}, nil
}

func (s *Service) session(id string) (*Session, error) {
	sess, ok := s.store.Get(id)
	if !ok {
		return nil, apperrors.NotFoundWithID("Review session", id)
	}
	return sess, nil
}

// runClassification is classification as a pure function of the batch and
// the persisted phone set; previous annotations are cleared so edits can
// resolve earlier duplicate or invalid verdicts.
func (s *Service) runClassification(ctx context.Context, batch []model.Contact) ([]model.Contact, error) {
	cleared := make([]model.Contact, len(batch))
	copy(cleared, batch)
	for i := range cleared {
		cleared[i].Status = ""
		cleared[i].Message = ""
	}

	persisted, err := s.directory.PersistedPhones(ctx, s.classifier.CanonicalPhones(cleared))
	if err != nil {
		return nil, apperrors.Internal("Failed to load persisted phones", err)
	}
	return s.classifier.Classify(ctx, cleared, persisted), nil
}

func (s *Service) reclassifyLocked(ctx context.Context, sess *Session) error {
	classified, err := s.runClassification(ctx, sess.Records)
	if err != nil {
		return err
	}
	sess.Records = classified
	sess.pruneSelection()
	return nil
}

func (s *Service) snapshot(sess *Session) *Snapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess)
}

func (s *Service) snapshotLocked(sess *Session) *Snapshot {
	records := make([]model.Contact, len(sess.Records))
	copy(records, sess.Records)
	return &Snapshot{
		ID:        sess.ID,
		Mode:      sess.Mode,
		Records:   records,
		Selection: sess.SelectedIndexes(),
	}
}
