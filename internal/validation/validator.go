package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	digitsOnly = regexp.MustCompile(`^\d+$`)
	cvvDigits  = regexp.MustCompile(`^\d{3,4}$`)
)

// DefaultCurrencies returns the supported ISO 4217 currency codes.
func DefaultCurrencies() map[string]struct{} {
	return map[string]struct{}{
		"USD": {},
		"EUR": {},
		"GBP": {},
	}
}

// FieldError reports a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator checks raw payment request fields before a command is built.
// The currency set is injected at construction, not a package global.
type Validator struct {
	currencies map[string]struct{}
	now        func() time.Time
}

func NewValidator(currencies map[string]struct{}) *Validator {
	return &Validator{currencies: currencies, now: time.Now}
}

// Validate runs every field check and returns all failures. An empty slice
// means the request may become a PaymentCommand.
func (v *Validator) Validate(cardNumber string, expiryMonth, expiryYear int, currency string, amount int64, cvv string) []FieldError {
	var errs []FieldError

	appendErr := func(e *FieldError) {
		if e != nil {
			errs = append(errs, *e)
		}
	}

	appendErr(v.validateCardNumber(cardNumber))
	appendErr(v.validateExpiryMonth(expiryMonth))
	appendErr(v.validateExpiryYear(expiryYear))
	appendErr(v.validateCurrency(currency))
	appendErr(v.validateAmount(amount))
	appendErr(v.validateCVV(cvv))
	appendErr(v.validateExpiryInFuture(expiryMonth, expiryYear))

	return errs
}

func (v *Validator) validateCardNumber(cardNumber string) *FieldError {
	const field = "card_number"

	if strings.TrimSpace(cardNumber) == "" {
		return &FieldError{field, "Card number is required."}
	}
	if len(cardNumber) < 14 {
		return &FieldError{field, "Card number must be at least 14 digits."}
	}
	if len(cardNumber) > 19 {
		return &FieldError{field, "Card number must be at most 19 digits."}
	}
	if !digitsOnly.MatchString(cardNumber) {
		return &FieldError{field, "Card number must contain digits only."}
	}
	return nil
}

func (v *Validator) validateExpiryMonth(month int) *FieldError {
	const field = "expiry_month"

	if month == 0 {
		return &FieldError{field, "Expiry month is required."}
	}
	if month < 1 || month > 12 {
		return &FieldError{field, "Expiry month must be between 1 and 12."}
	}
	return nil
}

func (v *Validator) validateExpiryYear(year int) *FieldError {
	const field = "expiry_year"

	if year == 0 {
		return &FieldError{field, "Expiry year is required."}
	}
	if year < 1000 || year > 9999 {
		return &FieldError{field, "Expiry year must be a four digit year."}
	}
	return nil
}

func (v *Validator) validateCurrency(currency string) *FieldError {
	const field = "currency"

	if strings.TrimSpace(currency) == "" {
		return &FieldError{field, "Currency code is required."}
	}
	if len(currency) != 3 {
		return &FieldError{field, "Currency code must be 3 characters long."}
	}
	if _, ok := v.currencies[strings.ToUpper(currency)]; !ok {
		return &FieldError{field, "Invalid currency code."}
	}
	return nil
}

func (v *Validator) validateAmount(amount int64) *FieldError {
	const field = "amount"

	if amount < 1 {
		return &FieldError{field, "The amount must be a positive number (at least 1 minor unit)."}
	}
	return nil
}

func (v *Validator) validateCVV(cvv string) *FieldError {
	const field = "cvv"

	if strings.TrimSpace(cvv) == "" {
		return &FieldError{field, "Cvv is required."}
	}
	if !cvvDigits.MatchString(cvv) {
		return &FieldError{field, "CVV must be 3 or 4 digits."}
	}
	return nil
}

// A card expires at the end of its expiry month: it is invalid on and after
// the first day of the following month (UTC). Only meaningful once the
// individual month and year checks passed.
func (v *Validator) validateExpiryInFuture(month, year int) *FieldError {
	if month < 1 || month > 12 || year < 1000 || year > 9999 {
		return nil
	}

	firstInvalid := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	if !v.now().UTC().Before(firstInvalid) {
		return &FieldError{"expiry_date", "Card expiry date must be in the future."}
	}
	return nil
}
