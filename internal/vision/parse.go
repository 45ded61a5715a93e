package vision

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/SreeHarith/ocr-app/pkg/sanitizer"
)

// Models often wrap the requested JSON in a Markdown code fence despite being
// told not to.
var reCodeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ParseModelReply extracts the JSON contact array from a model reply,
// tolerating a surrounding code fence. The payload is untrusted: unknown keys
// are ignored and entries with neither name nor phone are discarded.
func ParseModelReply(content string) ([]Contact, error) {
	payload := strings.TrimSpace(content)
	if m := reCodeFence.FindStringSubmatch(payload); m != nil {
		payload = m[1]
	}

	var entries []Contact
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, fmt.Errorf("vision reply is not a JSON contact array: %w", err)
	}

	contacts := make([]Contact, 0, len(entries))
	for _, e := range entries {
		e.Name = sanitizer.NormalizeName(e.Name)
		e.Phone = strings.TrimSpace(e.Phone)
		if e.Name == "" && e.Phone == "" {
			continue
		}
		contacts = append(contacts, e)
	}
	return contacts, nil
}
