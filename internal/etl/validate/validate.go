// Package validate holds the field-level validation and normalization rules
// for ingested entities. Each rule is a pure function from a raw value to a
// normalized value or a Violation. Violations carry their own canonical error
// kind, so callers classify structurally instead of sniffing message text.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/healthpipe/healthpipe/internal/etl/errkind"
)

// Violation describes a single failed field rule.
type Violation struct {
	Field   string
	Kind    errkind.Kind
	Message string
	Value   any
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Missing builds the violation for a required field that is absent.
func Missing(field string) *Violation {
	return &Violation{Field: field, Kind: errkind.MissingValue, Message: "Field required."}
}

// WrongType builds the violation for a field whose dynamic type does not
// match the rule, e.g. a number where a string is expected.
func WrongType(field, want string, value any) *Violation {
	return &Violation{
		Field:   field,
		Kind:    errkind.InvalidType,
		Message: fmt.Sprintf("Value is not a valid %s.", want),
		Value:   value,
	}
}

const (
	dateLayout   = "2006-01-02"
	dateLayoutUS = "01/02/2006"
)

// Date validates a calendar date, accepting YYYY-MM-DD or MM/DD/YYYY and
// always normalizing to YYYY-MM-DD.
func Date(field, value string) (string, *Violation) {
	if _, err := time.Parse(dateLayout, value); err == nil {
		return value, nil
	}
	if t, err := time.Parse(dateLayoutUS, value); err == nil {
		return t.Format(dateLayout), nil
	}
	return "", &Violation{
		Field:   field,
		Kind:    errkind.InvalidFormat,
		Message: "Invalid date format. Expected YYYY-MM-DD or MM/DD/YYYY.",
		Value:   value,
	}
}

var emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// Email checks the local@domain.tld shape.
func Email(field, value string) (string, *Violation) {
	if !emailRe.MatchString(value) {
		return "", &Violation{
			Field:   field,
			Kind:    errkind.InvalidFormat,
			Message: "Invalid email format.",
			Value:   value,
		}
	}
	return value, nil
}

var phoneRe = regexp.MustCompile(`^[0-9\s\-()]+$`)

// Phone allows digits, spaces, hyphens and parentheses, and trims the value.
func Phone(field, value string) (string, *Violation) {
	if !phoneRe.MatchString(value) {
		return "", &Violation{
			Field:   field,
			Kind:    errkind.InvalidFormat,
			Message: "Invalid phone format.",
			Value:   value,
		}
	}
	return strings.TrimSpace(value), nil
}

// NormalizeCase lower-cases the value and capitalizes the first letter
// ("MALE" -> "Male"). It never rejects.
func NormalizeCase(value string) string {
	s := strings.ToLower(value)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

const timestampNaive = "2006-01-02T15:04:05"

// Timestamp validates an ISO-8601 timestamp. A trailing Z is treated as the
// UTC offset; a zone-less timestamp is interpreted as UTC.
func Timestamp(field, value string) (time.Time, *Violation) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(timestampNaive, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, &Violation{
		Field:   field,
		Kind:    errkind.InvalidFormat,
		Message: "Invalid timestamp format. Expected ISO format (e.g., YYYY-MM-DDTHH:MM:SSZ).",
		Value:   value,
	}
}

// OpenRange rejects values outside the open interval (lo, hi). Absent fields
// are the caller's concern; a nil check never reaches this rule.
func OpenRange(field string, value, lo, hi float64) *Violation {
	if value > lo && value < hi {
		return nil
	}
	return &Violation{
		Field:   field,
		Kind:    errkind.ValueError,
		Message: fmt.Sprintf("%s value out of plausible range (%g-%g).", field, lo, hi),
		Value:   value,
	}
}

// Integer rejects numeric values with a fractional part, for columns that
// store whole numbers (blood pressure).
func Integer(field string, value float64) (int, *Violation) {
	i := int(value)
	if float64(i) != value {
		return 0, WrongType(field, "integer", value)
	}
	return i, nil
}
