package normalize

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the fallback region for numbers without a country code.
const DefaultRegion = "IN"

// Reasons surfaced to the review screen when a phone fails normalization.
const (
	ReasonBadFormat     = "Invalid phone number format."
	ReasonInvalidNumber = "Invalid phone number."
	ReasonInvalidIndian = "Invalid Indian number."
	ReasonNotMobile     = "Must be a mobile number."
)

var (
	reDigitsAndPlus = regexp.MustCompile(`[^\d+]`)

	// Indian mobile allocations: 10 digits starting 6-9. Stricter than the
	// numbering-plan check, which still accepts older historical ranges.
	reIndianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Phone is the result of normalizing free-form phone input. E164 is set only
// when Valid is true, so the canonical form is always a usable dedupe key.
type Phone struct {
	E164           string
	Valid          bool
	Region         string
	NationalNumber string
	Reason         string
}

type PhoneOptions struct {
	DefaultRegion string
	MobileOnly    bool
}

// NormalizePhone parses raw phone text into canonical E.164 form. Empty input
// yields a zero Phone; callers treat that as absent, not as an error. The
// function never fails, so batch processing is not aborted by one bad record.
func NormalizePhone(raw string, opts PhoneOptions) Phone {
	input := strings.TrimSpace(raw)
	if input == "" {
		return Phone{}
	}

	region := opts.DefaultRegion
	if region == "" {
		region = DefaultRegion
	}

	num := parseAny(input, region)
	if num == nil {
		return Phone{Reason: ReasonBadFormat}
	}

	p := Phone{
		Region:         phonenumbers.GetRegionCodeForNumber(num),
		NationalNumber: phonenumbers.GetNationalSignificantNumber(num),
	}

	if !phonenumbers.IsValidNumber(num) {
		p.Reason = ReasonInvalidNumber
		return p
	}
	if p.Region == "IN" && !reIndianMobile.MatchString(p.NationalNumber) {
		p.Reason = ReasonInvalidIndian
		return p
	}
	if opts.MobileOnly {
		switch phonenumbers.GetNumberType(num) {
		case phonenumbers.MOBILE, phonenumbers.FIXED_LINE_OR_MOBILE:
		default:
			p.Reason = ReasonNotMobile
			return p
		}
	}

	p.Valid = true
	p.E164 = phonenumbers.Format(num, phonenumbers.E164)
	return p
}

// parseAny tries international parsing first, then the default region, then
// both again with everything but digits and '+' stripped. The first attempt
// producing a structurally valid number wins.
func parseAny(input, region string) *phonenumbers.PhoneNumber {
	if num, err := phonenumbers.Parse(input, ""); err == nil {
		return num
	}
	if num, err := phonenumbers.Parse(input, region); err == nil {
		return num
	}

	stripped := reDigitsAndPlus.ReplaceAllString(input, "")
	if stripped == "" || stripped == input {
		return nil
	}
	if num, err := phonenumbers.Parse(stripped, ""); err == nil {
		return num
	}
	if num, err := phonenumbers.Parse(stripped, region); err == nil {
		return num
	}
	return nil
}
