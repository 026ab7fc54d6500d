package messaging

import (
	"regexp"

	"github.com/ttacon/libphonenumber"
)

// defaultPhoneRegion is the region used to parse numbers written without a
// country prefix, matching where the business operates.
const defaultPhoneRegion = "TH"

var phoneCandidatePattern = regexp.MustCompile(`\+?[0-9][0-9\- ]{7,14}[0-9]`)

// ExtractPhoneNumber scans free text for the first valid phone number and
// returns it in E.164 form. Returns empty when nothing in the text parses as
// a valid number.
func ExtractPhoneNumber(text string) string {
	for _, candidate := range phoneCandidatePattern.FindAllString(text, -1) {
		parsed, err := libphonenumber.Parse(candidate, defaultPhoneRegion)
		if err != nil {
			continue
		}
		if !libphonenumber.IsValidNumber(parsed) {
			continue
		}
		return libphonenumber.Format(parsed, libphonenumber.E164)
	}
	return ""
}

// NormalizePhoneNumber converts a stored phone number to E.164 for
// comparison. Returns empty when the number does not parse.
func NormalizePhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}
	parsed, err := libphonenumber.Parse(phone, defaultPhoneRegion)
	if err != nil {
		return ""
	}
	if !libphonenumber.IsValidNumber(parsed) {
		return ""
	}
	return libphonenumber.Format(parsed, libphonenumber.E164)
}
