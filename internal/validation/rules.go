package validation

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	localPhone      = regexp.MustCompile(`^\d{3}-\d{4}$`)
	usPostalPattern = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	caPostalPattern = regexp.MustCompile(`^[A-Za-z]\d[A-Za-z][ -]?\d[A-Za-z]\d$`)
)

// ValidEmail reports whether the address has local@domain.tld shape
// with a top-level domain of at least two letters.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PlausiblePhone reports whether the value is a usable phone number
// for the region. Two shapes pass:
//
//   - the pipeline's standardized local form NNN-NNNN, and
//   - anything libphonenumber parses and validates for the region.
//
// The local form cannot be validated by libphonenumber (it has no area
// code), so it is matched structurally.
func PlausiblePhone(s, region string) bool {
	if localPhone.MatchString(s) {
		return true
	}
	num, err := phonenumbers.Parse(s, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// ValidPostalCode reports whether the code matches the US 5 or 5+4
// digit format or the Canadian letter-digit alternation with optional
// separator. Region "US" or "CA" restricts to one format; any other
// value accepts either.
func ValidPostalCode(s, region string) bool {
	code := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch region {
	case "US":
		return usPostalPattern.MatchString(code)
	case "CA":
		return caPostalPattern.MatchString(code)
	default:
		return usPostalPattern.MatchString(code) || caPostalPattern.MatchString(code)
	}
}
