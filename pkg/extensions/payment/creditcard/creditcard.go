package creditcard

import (
	"strconv"
	"strings"
	"time"

	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Field-format and Luhn validation for credit card payments. Every
// failure is a user-facing error keyed by message id.

// Validate checks owner, expiry, security code, digits, Luhn checksum
// and brand-specific length/prefix rules.
func Validate(card *types.CreditCard) error {
	if card == nil {
		return errs.ErrCardNumberInvalid
	}
	if strings.TrimSpace(card.CardOwner) == "" {
		return errs.ErrCardOwnerEmpty
	}
	if err := validateExpiry(card.ExpirationMonth, card.ExpirationYear); err != nil {
		return err
	}
	if err := validateCCV(card.CCV); err != nil {
		return err
	}

	number := strings.ReplaceAll(strings.ReplaceAll(card.CardNumber, " ", ""), "-", "")
	if number == "" || !isDigits(number) {
		return errs.ErrCardNumberInvalid
	}
	if !luhn(number) {
		return errs.ErrCardNumberInvalid
	}
	return validateBrand(number)
}

func validateExpiry(month, year string) error {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return errs.ErrCardExpiryInvalid
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1000 {
		return errs.ErrCardExpiryInvalid
	}

	// expires at the end of the stated month
	now := time.Now()
	if y < now.Year() || (y == now.Year() && m < int(now.Month())) {
		return errs.ErrCardExpired
	}
	return nil
}

func validateCCV(ccv string) error {
	ccv = strings.TrimSpace(ccv)
	if len(ccv) < 3 || len(ccv) > 4 || !isDigits(ccv) {
		return errs.ErrCardCCVInvalid
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// luhn 标准mod-10校验
func luhn(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func validateBrand(number string) error {
	switch {
	case strings.HasPrefix(number, "4"):
		// Visa
		if len(number) != 13 && len(number) != 16 {
			return errs.ErrCardNumberInvalid
		}
	case hasPrefixInRange(number, 51, 55):
		// MasterCard
		if len(number) != 16 {
			return errs.ErrCardNumberInvalid
		}
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		// American Express
		if len(number) != 15 {
			return errs.ErrCardNumberInvalid
		}
	case strings.HasPrefix(number, "6011"):
		// Discover
		if len(number) != 16 {
			return errs.ErrCardNumberInvalid
		}
	default:
		return errs.ErrCardBrandUnknown
	}
	return nil
}

func hasPrefixInRange(number string, from, to int) bool {
	if len(number) < 2 {
		return false
	}
	prefix, err := strconv.Atoi(number[:2])
	if err != nil {
		return false
	}
	return prefix >= from && prefix <= to
}
