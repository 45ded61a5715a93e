package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/SreeHarith/ocr-app/pkg/model"
	"github.com/SreeHarith/ocr-app/pkg/sanitizer"
)

// Header names written on export; import matching is looser (see matchColumn).
var exportHeader = []string{"name", "phone", "gender", "birthday", "anniversary"}

type column int

const (
	colUnknown column = iota
	colName
	colPhone
	colGender
	colBirthday
	colAnniversary
)

// matchColumn maps a header cell to a contact field. Matching is
// case-insensitive by substring so headers like "Phone Number" or
// "Customer Name" still bind. Anniversary is checked before the other
// date-ish headers so "Anniversary Date" never binds to birthday.
func matchColumn(header string) column {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case strings.Contains(h, "anniversary"):
		return colAnniversary
	case strings.Contains(h, "birthday"):
		return colBirthday
	case strings.Contains(h, "gender"):
		return colGender
	case strings.Contains(h, "phone"):
		return colPhone
	case strings.Contains(h, "name"):
		return colName
	default:
		return colUnknown
	}
}

// Parse reads a CSV with a header row into raw contact records. Unknown
// columns are ignored and short rows are tolerated. A leading tab on phone
// values (the export guard against spreadsheet auto-formatting) is stripped.
func Parse(r io.Reader) ([]model.Contact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([]column, len(header))
	known := 0
	for i, cell := range header {
		columns[i] = matchColumn(cell)
		if columns[i] != colUnknown {
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("csv header has no recognized columns (expected name, phone, gender, birthday or anniversary)")
	}

	var contacts []model.Contact
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		var c model.Contact
		for i, cell := range row {
			if i >= len(columns) {
				break
			}
			switch columns[i] {
			case colName:
				c.Name = sanitizer.NormalizeName(cell)
			case colPhone:
				c.Phone = strings.TrimSpace(strings.TrimPrefix(cell, "\t"))
			case colGender:
				c.Gender = parseGender(strings.TrimSpace(cell))
			case colBirthday:
				c.Birthday = strings.TrimSpace(cell)
			case colAnniversary:
				c.Anniversary = strings.TrimSpace(cell)
			}
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func parseGender(value string) model.Gender {
	switch strings.ToLower(value) {
	case "male", "m":
		return model.GenderMale
	case "female", "f":
		return model.GenderFemale
	default:
		return model.GenderUnknown
	}
}

// Write exports contacts with all five columns. The phone value is prefixed
// with a tab so spreadsheets do not mangle the leading '+'.
func Write(w io.Writer, contacts []model.Contact) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range contacts {
		row := []string{
			c.Name,
			"\t" + c.Phone,
			string(c.Gender),
			c.Birthday,
			c.Anniversary,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
