package currency

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Amounts are held in minor units with two decimal places.
const minorPerMajor = 100

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// Money is a currency-tagged fixed-point amount. The zero value is an untagged zero.
type Money struct {
	minor int64
	code  string
}

func New(minor int64, code string) Money {
	return Money{minor: minor, code: strings.ToUpper(code)}
}

func FromMajor(major int64, code string) Money {
	return New(major*minorPerMajor, code)
}

func Zero(code string) Money {
	return New(0, code)
}

// Parse reads a decimal string such as "5000", "12.5" or "-3.20".
// More than two fractional digits is rejected rather than rounded.
func Parse(s, code string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.TrimSpace(code) == "" {
		return Money{}, fmt.Errorf("%w: missing currency", ErrInvalidAmount)
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" && (!hasFrac || fracPart == "") {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(fracPart) > 2 {
		return Money{}, fmt.Errorf("%w: %q has more than 2 decimal places", ErrInvalidAmount, s)
	}
	if !digitsOnly(intPart) || !digitsOnly(fracPart) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	var major int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil || v > (1<<62)/minorPerMajor {
			return Money{}, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
		}
		major = v
	}

	var frac int64
	if fracPart != "" {
		for len(fracPart) < 2 {
			fracPart += "0"
		}
		frac, _ = strconv.ParseInt(fracPart, 10, 64)
	}

	minor := major*minorPerMajor + frac
	if negative {
		minor = -minor
	}
	return New(minor, code), nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (m Money) Minor() int64 { return m.minor }

func (m Money) Currency() string { return m.code }

func (m Money) IsZero() bool { return m.minor == 0 }

func (m Money) IsPositive() bool { return m.minor > 0 }

func (m Money) IsNegative() bool { return m.minor < 0 }

func (m Money) SameCurrency(o Money) bool {
	return m.code == o.code
}

func (m Money) Add(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrCurrencyMismatch, m.code, o.code)
	}
	return Money{minor: m.minor + o.minor, code: m.code}, nil
}

func (m Money) Sub(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrCurrencyMismatch, m.code, o.code)
	}
	return Money{minor: m.minor - o.minor, code: m.code}, nil
}

func (m Money) Mul(n int64) Money {
	return Money{minor: m.minor * n, code: m.code}
}

// Percent returns pct percent of m, floored to the minor unit so that a set of
// percentages summing to 100 never allocates more than m. The whole hundreds
// are scaled separately so amounts near the parse limit do not overflow.
func (m Money) Percent(pct int64) Money {
	minor := m.minor/100*pct + m.minor%100*pct/100
	return Money{minor: minor, code: m.code}
}

// Cmp compares amounts. Both values must carry the same currency.
func (m Money) Cmp(o Money) int {
	switch {
	case m.minor < o.minor:
		return -1
	case m.minor > o.minor:
		return 1
	default:
		return 0
	}
}

// LessOrEqual reports whether m ≤ o; values in different currencies never compare.
func (m Money) LessOrEqual(o Money) bool {
	return m.SameCurrency(o) && m.minor <= o.minor
}

// Sum adds amounts that must all be in code.
func Sum(code string, amounts ...Money) (Money, error) {
	total := Zero(code)
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}

// String renders the plain decimal amount, e.g. "1250.50".
func (m Money) String() string {
	minor := m.minor
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/minorPerMajor, minor%minorPerMajor)
}

type moneyJSON struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{
		Amount:   m.String(),
		Currency: m.code,
	})
}

// UnmarshalJSON accepts the amount either as a JSON string or a JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Amount) == 0 {
		return fmt.Errorf("%w: missing amount", ErrInvalidAmount)
	}

	amount := string(raw.Amount)
	if strings.HasPrefix(amount, `"`) {
		if err := json.Unmarshal(raw.Amount, &amount); err != nil {
			return err
		}
	}

	// The untagged zero value marshals with an empty currency.
	if raw.Currency == "" && strings.Trim(amount, "0.") == "" && amount != "" {
		*m = Money{}
		return nil
	}

	parsed, err := Parse(amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
