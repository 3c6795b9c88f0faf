package validation

import (
	"errors"
	"strings"
	"unicode"
)

// Last4 extracts the last four digits of a card number. Anything that is not
// a digit is ignored. Fewer than four digits means the upstream validator let
// a bad PAN through, so the failure is loud rather than papered over.
func Last4(cardNumber string) (string, error) {
	if strings.TrimSpace(cardNumber) == "" {
		return "", errors.New("card number required")
	}

	var digits []rune
	for _, r := range cardNumber {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return "", errors.New("card number has fewer than 4 digits")
	}
	return string(digits[len(digits)-4:]), nil
}
