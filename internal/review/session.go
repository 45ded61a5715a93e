package review

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SreeHarith/ocr-app/pkg/model"
)

// Mode is the ingestion path a session's batch came from. It decides how
// confirmation behaves: CSV saves only explicitly selected rows, OCR and
// manual batches block on invalid rows and silently drop duplicates.
type Mode string

const (
	ModeCSV    Mode = "csv"
	ModeOCR    Mode = "ocr"
	ModeManual Mode = "manual"
)

// Session is the server-side state of one review screen: the classified
// batch and, for CSV batches, the row selection. All mutations go through
// the service, which re-runs classification after every edit; the session
// itself never computes statuses.
type Session struct {
	ID        string
	Mode      Mode
	Records   []model.Contact
	Selection map[int]struct{}
	CreatedAt time.Time

	mu sync.Mutex
}

func newSession(mode Mode, records []model.Contact) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		Records:   records,
		Selection: make(map[int]struct{}),
		CreatedAt: time.Now().UTC(),
	}
	if mode == ModeCSV {
		s.selectNewRows()
	}
	return s
}

// selectNewRows marks every row currently classified new. Used on open and
// to reconcile the selection after reclassification.
func (s *Session) selectNewRows() {
	for i, rec := range s.Records {
		if rec.Status == model.StatusNew {
			s.Selection[i] = struct{}{}
		}
	}
}

// pruneSelection drops selected indexes that no longer refer to a new row.
func (s *Session) pruneSelection() {
	for i := range s.Selection {
		if i < 0 || i >= len(s.Records) || s.Records[i].Status != model.StatusNew {
			delete(s.Selection, i)
		}
	}
}

// SelectedIndexes returns the selection in ascending order for rendering.
func (s *Session) SelectedIndexes() []int {
	indexes := make([]int, 0, len(s.Selection))
	for i := range s.Selection {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

// removeWhere filters records in place keeping batch order, remapping the
// selection to the surviving indexes.
func (s *Session) removeWhere(drop func(model.Contact) bool) {
	kept := make([]model.Contact, 0, len(s.Records))
	remapped := make(map[int]struct{}, len(s.Selection))
	for i, rec := range s.Records {
		if drop(rec) {
			continue
		}
		if _, ok := s.Selection[i]; ok {
			remapped[len(kept)] = struct{}{}
		}
		kept = append(kept, rec)
	}
	s.Records = kept
	s.Selection = remapped
}
