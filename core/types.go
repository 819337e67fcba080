package core

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of all date-only fields.
const DateLayout = "2006-01-02"

var jsonNull = []byte("null")

// Date is a date-only value (no time component, UTC).
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	return NewDate(time.Now())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return jsonNull, nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Decimal is a fixed-point numeric wire value. It always renders as a JSON
// string with 2 decimal places ("88.50") and accepts either a number or a
// string on input.
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{d}
}

// MustDecimal parses s or panics. For tests and seed data.
func MustDecimal(s string) Decimal {
	return Decimal{decimal.RequireFromString(s)}
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.StringFixed(2) + `"`), nil
}

// Fits reports whether d fits a numeric(precision, scale) column.
func (d Decimal) Fits(precision, scale int32) bool {
	if !d.Decimal.Truncate(scale).Equal(d.Decimal) {
		return false
	}
	return d.Decimal.Abs().LessThan(decimal.New(1, precision-scale))
}

// CheckNumeric validates a score value against the numeric(5,2) columns used
// for all scores; reports nil when valid.
func CheckNumeric(field string, d Decimal) *FieldError {
	if d.IsNegative() {
		return &FieldError{Field: field, Error: "must be greater than or equal to 0"}
	}
	if !d.Fits(5, 2) {
		return &FieldError{Field: field, Error: "no more than 5 digits in total and 2 decimal places allowed"}
	}
	return nil
}
