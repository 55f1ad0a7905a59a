// Package transform converts raw extracted records into validated domain
// entities or quarantined error records. Transformation is stateless per
// record; cross-record checks live in the pipeline.
package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/healthpipe/healthpipe/internal/domain/patient"
	"github.com/healthpipe/healthpipe/internal/domain/quarantine"
	"github.com/healthpipe/healthpipe/internal/domain/reading"
	"github.com/healthpipe/healthpipe/internal/etl/errkind"
	"github.com/healthpipe/healthpipe/internal/etl/record"
	"github.com/healthpipe/healthpipe/internal/etl/validate"
)

// Policy decides how many violations to collect per record. It receives the
// number collected so far and reports whether validation should continue.
type Policy func(collected int) bool

// CollectFirst stops after the first violation. This is the default: one
// record, one error.
func CollectFirst(collected int) bool { return collected == 0 }

// CollectAll gathers every field violation on a record.
func CollectAll(int) bool { return true }

// Transformer applies field rules and cross-field checks to raw records.
type Transformer struct {
	policy Policy
}

func New(policy Policy) *Transformer {
	if policy == nil {
		policy = CollectFirst
	}
	return &Transformer{policy: policy}
}

type collector struct {
	policy     Policy
	violations []*validate.Violation
}

func (c *collector) add(v *validate.Violation) {
	if v != nil && c.policy(len(c.violations)) {
		c.violations = append(c.violations, v)
	}
}

// open reports whether the policy still wants more violations; rules are
// skipped once it returns false (fail-fast).
func (c *collector) open() bool { return c.policy(len(c.violations)) }

// Patient transforms one raw patient record. On success it returns the
// validated entity and no errors; on failure, no entity and the quarantined
// violations (exactly one under the default policy). A panic anywhere in the
// rules is demoted to a TRANSFORMATION_ERROR record so a single bad record
// cannot abort a batch.
func (t *Transformer) Patient(raw record.Raw, ordinal int) (p *patient.Patient, errs []*quarantine.ErrorRecord) {
	ref := referenceID(raw, ordinal, "id")
	defer func() {
		if r := recover(); r != nil {
			p = nil
			errs = []*quarantine.ErrorRecord{transformPanic(ref, quarantine.SourcePatients, raw, r)}
		}
	}()

	rec := raw.Clone()
	c := &collector{policy: t.policy}
	out := &patient.Patient{ID: ref}

	if name, ok := requireString(rec, "name", c); ok {
		out.Name = name
	}
	if dob, ok := requireString(rec, "dob", c); ok {
		normalized, v := validate.Date("dob", dob)
		c.add(v)
		out.DOB = normalized
	}
	if gender, ok := requireString(rec, "gender", c); ok {
		out.Gender = validate.NormalizeCase(gender)
	}
	if address, ok := requireString(rec, "address", c); ok {
		out.Address = address
	}
	if email, ok := requireString(rec, "email", c); ok {
		normalized, v := validate.Email("email", email)
		c.add(v)
		out.Email = normalized
	}
	if phone, ok := requireString(rec, "phone", c); ok {
		normalized, v := validate.Phone("phone", phone)
		c.add(v)
		out.Phone = normalized
	}
	if sex, ok := requireString(rec, "sex", c); ok {
		out.Sex = validate.NormalizeCase(sex)
	}

	if len(c.violations) > 0 {
		return nil, errorRecords(ref, quarantine.SourcePatients, c.violations)
	}
	return out, nil
}

var readingNumericFields = []string{"glucose", "systolic_bp", "diastolic_bp", "weight"}

// Reading transforms one raw device-reading record. Numeric-looking string
// inputs are coerced first; coercion failures surface through the type check
// rather than here. After field validation, the blood-pressure cross-field
// check runs: a diastolic >= systolic reading produces a
// LOGICAL_INCONSISTENCY record and no entity.
func (t *Transformer) Reading(raw record.Raw, ordinal int) (dr *reading.DeviceReading, errs []*quarantine.ErrorRecord) {
	ref := referenceID(raw, ordinal, "id", "reading_id")
	defer func() {
		if r := recover(); r != nil {
			dr = nil
			errs = []*quarantine.ErrorRecord{transformPanic(ref, quarantine.SourceReadings, raw, r)}
		}
	}()

	rec := raw.Clone()
	for _, field := range readingNumericFields {
		rec.CoerceNumeric(field)
	}

	c := &collector{policy: t.policy}
	out := &reading.DeviceReading{ID: ref}

	if rec.Has("patient_id") && c.open() {
		if s, _, isString := rec.String("patient_id"); isString && strings.TrimSpace(s) == "" {
			// empty CSV cell, treated as absent
		} else if pid, ok := rec.ID("patient_id"); ok {
			out.PatientID = pid
		} else {
			c.add(validate.WrongType("patient_id", "string", rec["patient_id"]))
		}
	}

	if ts, ok := requireString(rec, "timestamp", c); ok {
		parsed, v := validate.Timestamp("timestamp", ts)
		c.add(v)
		out.Timestamp = parsed
	}

	out.Glucose = optionalMeasure(rec, "glucose", 0, 1000, c)
	out.SystolicBP = optionalIntMeasure(rec, "systolic_bp", 0, 300, c)
	out.DiastolicBP = optionalIntMeasure(rec, "diastolic_bp", 0, 300, c)
	out.Weight = optionalMeasure(rec, "weight", 0, 1000, c)

	if len(c.violations) > 0 {
		return nil, errorRecords(ref, quarantine.SourceReadings, c.violations)
	}

	if out.SystolicBP != nil && out.DiastolicBP != nil && *out.DiastolicBP >= *out.SystolicBP {
		return nil, []*quarantine.ErrorRecord{{
			Reference:       ref,
			SourceTable:     quarantine.SourceReadings,
			FieldName:       "blood_pressure",
			ErrorType:       errkind.LogicalInconsistency,
			CaseDescription: "Diastolic BP is greater than or equal to Systolic BP.",
			OriginalValue:   fmt.Sprintf("Systolic: %d, Diastolic: %d", *out.SystolicBP, *out.DiastolicBP),
		}}
	}
	return out, nil
}

// referenceID resolves the id used to reference a record in error reports:
// the record's own identifier when present, otherwise its ordinal position.
func referenceID(rec record.Raw, ordinal int, keys ...string) string {
	for _, key := range keys {
		if id, ok := rec.ID(key); ok {
			return id
		}
	}
	return strconv.Itoa(ordinal)
}

// requireString fetches a required, non-empty string field, collecting the
// appropriate violation when it is absent, empty or mistyped. The second
// result is true only when a usable value was obtained, so follow-up format
// rules never run on a field that already failed.
func requireString(rec record.Raw, field string, c *collector) (string, bool) {
	if !c.open() {
		return "", false
	}
	s, present, isString := rec.String(field)
	switch {
	case !present:
		c.add(validate.Missing(field))
		return "", false
	case !isString:
		c.add(validate.WrongType(field, "string", rec[field]))
		return "", false
	case s == "":
		c.add(validate.Missing(field))
		return "", false
	}
	return s, true
}

func optionalMeasure(rec record.Raw, field string, lo, hi float64, c *collector) *float64 {
	if !rec.Has(field) || !c.open() {
		return nil
	}
	v, _, isNumber := rec.Number(field)
	if !isNumber {
		c.add(validate.WrongType(field, "number", rec[field]))
		return nil
	}
	if viol := validate.OpenRange(field, v, lo, hi); viol != nil {
		c.add(viol)
		return nil
	}
	return &v
}

func optionalIntMeasure(rec record.Raw, field string, lo, hi float64, c *collector) *int {
	if !rec.Has(field) || !c.open() {
		return nil
	}
	v, _, isNumber := rec.Number(field)
	if !isNumber {
		c.add(validate.WrongType(field, "number", rec[field]))
		return nil
	}
	i, viol := validate.Integer(field, v)
	if viol != nil {
		c.add(viol)
		return nil
	}
	if viol := validate.OpenRange(field, v, lo, hi); viol != nil {
		c.add(viol)
		return nil
	}
	return &i
}

func errorRecords(ref, source string, violations []*validate.Violation) []*quarantine.ErrorRecord {
	out := make([]*quarantine.ErrorRecord, 0, len(violations))
	for _, v := range violations {
		out = append(out, &quarantine.ErrorRecord{
			Reference:       ref,
			SourceTable:     source,
			FieldName:       v.Field,
			ErrorType:       v.Kind,
			CaseDescription: v.Message,
			OriginalValue:   stringify(v.Value),
		})
	}
	return out
}

func transformPanic(ref, source string, rec record.Raw, cause any) *quarantine.ErrorRecord {
	return &quarantine.ErrorRecord{
		Reference:       ref,
		SourceTable:     source,
		ErrorType:       errkind.TransformationError,
		CaseDescription: fmt.Sprintf("%v", cause),
		OriginalValue:   fmt.Sprintf("%v", map[string]any(rec)),
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
