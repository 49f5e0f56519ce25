package domain

import (
	"fmt"

	"golang.org/x/text/currency"
)

// ParseCurrency resolves an ISO 4217 code and returns its canonical upper-case form.
func ParseCurrency(code string) (string, error) {
	u, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: %.8q", ErrUnknownCurrency, code)
	}
	return u.String(), nil
}
