package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SreeHarith/ocr-app/pkg/model"
)

func TestParseHeaderMatching(t *testing.T) {
	input := strings.Join([]string{
		"Customer Name,Phone Number,GENDER,Birthday (dd-mm-yyyy),Anniversary Date,Notes",
		"Asha Patel,+919876543210,female,10-12-1990,01-06-2015,ignore me",
	}, "\n")

	contacts, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, contacts, 1)

	c := contacts[0]
	assert.Equal(t, "Asha Patel", c.Name)
	assert.Equal(t, "+919876543210", c.Phone)
	assert.Equal(t, model.GenderFemale, c.Gender)
	assert.Equal(t, "10-12-1990", c.Birthday)
	assert.Equal(t, "01-06-2015", c.Anniversary)
}

func TestParseStripsPhoneTabGuard(t *testing.T) {
	input := "name,phone\nAsha,\t+919876543210\n"

	contacts, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "+919876543210", contacts[0].Phone)
}

func TestParseShortAndRaggedRows(t *testing.T) {
	input := strings.Join([]string{
		"name,phone,gender",
		"Asha,9876543210,female",
		"Ravi",
		"",
	}, "\n")

	contacts, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Ravi", contacts[1].Name)
	assert.Empty(t, contacts[1].Phone)
}

func TestParseRejectsUnrecognizedHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)
}

func TestParseRejectsEmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	contacts := []model.Contact{
		{Name: "Asha Patel", Phone: "+919876543210", Gender: model.GenderFemale, Birthday: "1990-12-10"},
		{Name: "Ravi", Phone: "+919876543211", Gender: model.GenderMale, Anniversary: "2015-06-01"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, contacts))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,phone,gender,birthday,anniversary", lines[0])
	assert.Contains(t, lines[1], "\t+919876543210", "phone must carry the tab guard")

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, contacts[0].Phone, parsed[0].Phone)
	assert.Equal(t, contacts[1].Anniversary, parsed[1].Anniversary)
}
