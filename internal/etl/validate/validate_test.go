package validate

import (
	"testing"
	"time"

	"github.com/healthpipe/healthpipe/internal/etl/errkind"
)

func TestDate_ISO(t *testing.T) {
	got, v := Date("dob", "1990-01-01")
	if v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	if got != "1990-01-01" {
		t.Errorf("got %q, want 1990-01-01", got)
	}
}

func TestDate_USReformatted(t *testing.T) {
	got, v := Date("dob", "03/15/1985")
	if v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	if got != "1985-03-15" {
		t.Errorf("got %q, want 1985-03-15", got)
	}
}

func TestDate_Invalid(t *testing.T) {
	for _, in := range []string{"1990/01/01", "15/03/1985", "yesterday", ""} {
		_, v := Date("dob", in)
		if v == nil {
			t.Errorf("Date(%q): expected violation", in)
			continue
		}
		if v.Kind != errkind.InvalidFormat {
			t.Errorf("Date(%q): kind = %s, want INVALID_FORMAT", in, v.Kind)
		}
		if v.Field != "dob" {
			t.Errorf("Date(%q): field = %s", in, v.Field)
		}
	}
}

func TestEmail(t *testing.T) {
	if _, v := Email("email", "alice@example.com"); v != nil {
		t.Errorf("valid email rejected: %v", v)
	}
	for _, in := range []string{"bob@", "no-at-sign", "a@b", "@x.com"} {
		_, v := Email("email", in)
		if v == nil {
			t.Errorf("Email(%q): expected violation", in)
		} else if v.Kind != errkind.InvalidFormat {
			t.Errorf("Email(%q): kind = %s", in, v.Kind)
		}
	}
}

func TestPhone(t *testing.T) {
	got, v := Phone("phone", " (555) 123-4567 ")
	if v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	if got != "(555) 123-4567" {
		t.Errorf("got %q, want trimmed value", got)
	}

	if _, v := Phone("phone", "call-me-maybe"); v == nil {
		t.Error("expected violation for letters")
	} else if v.Kind != errkind.InvalidFormat {
		t.Errorf("kind = %s, want INVALID_FORMAT", v.Kind)
	}
}

func TestNormalizeCase(t *testing.T) {
	cases := map[string]string{
		"MALE":       "Male",
		"female":     "Female",
		"Non-binary": "Non-binary",
		"f":          "F",
		"":           "",
	}
	for in, want := range cases {
		if got := NormalizeCase(in); got != want {
			t.Errorf("NormalizeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTimestamp(t *testing.T) {
	got, v := Timestamp("timestamp", "2023-01-01T10:00:00Z")
	if v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	want := time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// zone-less timestamps are treated as UTC
	got, v = Timestamp("timestamp", "2023-01-01T10:00:00")
	if v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
	if !got.Equal(want) {
		t.Errorf("naive timestamp: got %v, want %v", got, want)
	}

	if _, v := Timestamp("timestamp", "invalid_timestamp"); v == nil {
		t.Error("expected violation")
	} else if v.Kind != errkind.InvalidFormat {
		t.Errorf("kind = %s, want INVALID_FORMAT", v.Kind)
	}
}

func TestOpenRange_Boundaries(t *testing.T) {
	// the interval is open: endpoints are rejected
	for _, v := range []float64{0, 1000, -5, 5000} {
		if viol := OpenRange("glucose", v, 0, 1000); viol == nil {
			t.Errorf("glucose %v should be rejected", v)
		} else if viol.Kind != errkind.ValueError {
			t.Errorf("glucose %v: kind = %s, want VALUE_ERROR", v, viol.Kind)
		}
	}
	for _, v := range []float64{0.01, 999.99, 120.5} {
		if viol := OpenRange("glucose", v, 0, 1000); viol != nil {
			t.Errorf("glucose %v should be accepted: %v", v, viol)
		}
	}
}

func TestInteger(t *testing.T) {
	i, v := Integer("systolic_bp", 120.0)
	if v != nil || i != 120 {
		t.Errorf("Integer(120.0) = %d, %v", i, v)
	}
	if _, v := Integer("systolic_bp", 120.5); v == nil {
		t.Error("expected violation for fractional value")
	} else if v.Kind != errkind.InvalidType {
		t.Errorf("kind = %s, want INVALID_TYPE", v.Kind)
	}
}

func TestMissingAndWrongType(t *testing.T) {
	m := Missing("name")
	if m.Kind != errkind.MissingValue || m.Field != "name" {
		t.Errorf("Missing: %+v", m)
	}
	w := WrongType("glucose", "number", "high")
	if w.Kind != errkind.InvalidType || w.Value != "high" {
		t.Errorf("WrongType: %+v", w)
	}
}
