package validate

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePrice = regexp.MustCompile(`^-?[0-9]{1,9}(\.[0-9]{1,2})?$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// ID validates a simple resource identifier (product/category/cart line ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Price parses a money amount with at most two decimals. Negative values
// parse; callers decide what a non-positive amount means.
func Price(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !rePrice.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var maxOffer = decimal.NewFromInt(1_000_000_000)

// Offer reads the suggested price field of an add-to-cart form. An empty
// field means no offer; malformed is true for anything that is not an amount.
// Any decimal notation is accepted and rounded to cents, so "99.999" offers
// 100 and "8e1" offers 80.
func Offer(s string) (offer *decimal.Decimal, malformed bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Exponent() > 9 || d.Exponent() < -20 {
		return nil, true
	}
	if d.Abs().GreaterThanOrEqual(maxOffer) {
		return nil, true
	}
	d = d.Round(2)
	return &d, false
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 20 {
		return "", false
	}
	return s, true
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
