// README: Common money value object used across modules (integer paise, INR display).
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const CurrencyINR = "INR"

const rupeeSymbol = "₹"

// maxRupees keeps rupees*100 plus two paise digits within int64.
const maxRupees = (math.MaxInt64 - 99) / 100

// Money is an amount in the currency's minor unit (paise for INR).
type Money struct {
	Amount   int64
	Currency string
}

func Rupees(n int64) Money {
	return Money{Amount: n * 100, Currency: CurrencyINR}
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount + o.Amount, Currency: m.currency()}
}

// Rupees returns the amount as a float for JSON display only.
func (m Money) Rupees() float64 {
	return float64(m.Amount) / 100
}

// String renders "₹1000.00".
func (m Money) String() string {
	sign := ""
	n := m.Amount
	if n < 0 {
		sign = "-"
		n = -n
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, rupeeSymbol, n/100, n%100)
}

func (m Money) currency() string {
	if m.Currency == "" {
		return CurrencyINR
	}
	return m.Currency
}

// ParseMoney parses display strings such as "₹1,250.50", "Rs 300" or "750".
// At most two fractional digits are kept; extra digits are truncated.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, rupeeSymbol)
	// mis-decoded UTF-8 rupee sign as stored by some browsers
	s = strings.TrimPrefix(s, "â‚¹")
	lower := strings.ToLower(s)
	for _, p := range []string{"inr", "rs.", "rs"} {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" {
		return Money{}, fmt.Errorf("invalid money amount")
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	if !allDigits(whole) || !allDigits(frac) || whole+frac == "" {
		return Money{}, fmt.Errorf("invalid money amount %q", s)
	}
	if whole == "" {
		whole = "0"
	}
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || rupees > maxRupees {
		return Money{}, fmt.Errorf("money amount %q out of range", s)
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	paise, _ := strconv.ParseInt(frac, 10, 64)
	amount := rupees*100 + paise
	if neg {
		amount = -amount
	}
	return Money{Amount: amount, Currency: CurrencyINR}, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
