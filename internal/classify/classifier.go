package classify

import (
	"context"
	"sync"

	"github.com/SreeHarith/ocr-app/internal/normalize"
	"github.com/SreeHarith/ocr-app/pkg/logger"
	"github.com/SreeHarith/ocr-app/pkg/model"
	"github.com/SreeHarith/ocr-app/pkg/sanitizer"
)

// Messages attached to classified records.
const (
	MsgNameRequired     = "Name is required."
	MsgPhoneRequired    = "Phone is required."
	MsgReady            = "Ready to import."
	MsgDuplicateInBatch = "Duplicate within this list."
)

// GenderLookup infers a gender from a first name. Implementations must treat
// failures as soft: the classifier degrades to unknown and never fails a
// record over it.
type GenderLookup interface {
	Infer(ctx context.Context, firstName string) (model.Gender, error)
}

// Classifier assigns each record in a batch a status of new, duplicate or
// invalid. It is the single rule set shared by the validate route, the CSV
// and OCR adapters and the review session; nothing else re-implements these
// checks.
type Classifier struct {
	phoneOpts normalize.PhoneOptions
	gender    GenderLookup
	log       *logger.Logger
}

func New(phoneOpts normalize.PhoneOptions, gender GenderLookup, log *logger.Logger) *Classifier {
	return &Classifier{
		phoneOpts: phoneOpts,
		gender:    gender,
		log:       log,
	}
}

// Classify annotates a copy of batch in original order. persisted maps
// canonical phone to the stored contact's name. Earlier records establish the
// "original" for later in-batch duplicates, so order matters. Classification
// never returns an error; per-record problems become status annotations.
func (c *Classifier) Classify(ctx context.Context, batch []model.Contact, persisted map[string]string) []model.Contact {
	out := make([]model.Contact, len(batch))
	copy(out, batch)

	seen := make(map[string]struct{}, len(out))

	for i := range out {
		rec := &out[i]
		rec.Name = sanitizer.NormalizeName(rec.Name)
		rec.Birthday = normalize.NormalizeDate(rec.Birthday)
		rec.Anniversary = normalize.NormalizeDate(rec.Anniversary)
		if rec.Gender == "" {
			rec.Gender = model.GenderUnknown
		}

		// A record tagged duplicate by an upstream validation pass keeps its
		// status, but its phone still seeds the seen-set so later in-batch
		// copies of it are caught.
		if rec.Status == model.StatusDuplicate {
			if phone := normalize.NormalizePhone(rec.Phone, c.phoneOpts); phone.Valid {
				rec.Phone = phone.E164
				seen[phone.E164] = struct{}{}
			}
			continue
		}

		if rec.Name == "" {
			rec.Status = model.StatusInvalid
			rec.Message = MsgNameRequired
			continue
		}
		if rec.Phone == "" {
			rec.Status = model.StatusInvalid
			rec.Message = MsgPhoneRequired
			continue
		}

		phone := normalize.NormalizePhone(rec.Phone, c.phoneOpts)
		if !phone.Valid {
			rec.Status = model.StatusInvalid
			rec.Message = phone.Reason
			continue
		}
		rec.Phone = phone.E164

		if existingName, ok := persisted[phone.E164]; ok {
			rec.Status = model.StatusDuplicate
			rec.Message = "Already saved as '" + existingName + "'."
			seen[phone.E164] = struct{}{}
			continue
		}
		if _, ok := seen[phone.E164]; ok {
			rec.Status = model.StatusDuplicate
			rec.Message = MsgDuplicateInBatch
			continue
		}

		seen[phone.E164] = struct{}{}
		rec.Status = model.StatusNew
		rec.Message = MsgReady
	}

	c.inferGenders(ctx, out)
	return out
}

// CanonicalPhones returns the distinct canonical forms of every normalizable
// phone in the batch, the keys to check against the persisted store.
func (c *Classifier) CanonicalPhones(batch []model.Contact) []string {
	seen := make(map[string]struct{}, len(batch))
	phones := make([]string, 0, len(batch))
	for _, rec := range batch {
		phone := normalize.NormalizePhone(rec.Phone, c.phoneOpts)
		if !phone.Valid {
			continue
		}
		if _, ok := seen[phone.E164]; ok {
			continue
		}
		seen[phone.E164] = struct{}{}
		phones = append(phones, phone.E164)
	}
	return phones
}

// inferGenders fills missing genders on importable records. Lookups run
// concurrently across the batch; all complete before the batch is returned,
// with no ordering guaranteed among them.
func (c *Classifier) inferGenders(ctx context.Context, records []model.Contact) {
	if c.gender == nil {
		return
	}

	var wg sync.WaitGroup
	for i := range records {
		rec := &records[i]
		if rec.Status != model.StatusNew || rec.Gender != model.GenderUnknown {
			continue
		}
		firstName := sanitizer.FirstNameToken(rec.Name)
		if firstName == "" {
			continue
		}

		wg.Add(1)
		go func(rec *model.Contact, firstName string) {
			defer wg.Done()
			gender, err := c.gender.Infer(ctx, firstName)
			if err != nil {
				c.log.Warn("Gender inference failed, defaulting to unknown",
					"first_name", firstName,
					"error", err,
				)
				return
			}
			rec.Gender = gender
		}(rec, firstName)
	}
	wg.Wait()
}
