package user

import "strings"

// Numbers written without a country code are Turkish.
const defaultCountryCode = "90"

// NormalizePhone reduces a phone number to its digits including the country
// code, so "+90 532 111 22 33", "905321112233" and "0532 111 22 33" all
// become "905321112233".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	international := strings.HasPrefix(phone, "+")

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	switch {
	case digits == "":
		return ""
	case international:
	case strings.HasPrefix(digits, "00"):
		digits = digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = defaultCountryCode + digits[1:]
	case len(digits) == 10:
		digits = defaultCountryCode + digits
	}

	return digits
}
