package transform

import (
	"fmt"
	"time"

	"github.com/healthpipe/healthpipe/internal/domain/patient"
	"github.com/healthpipe/healthpipe/internal/domain/quarantine"
	"github.com/healthpipe/healthpipe/internal/domain/reading"
	"github.com/healthpipe/healthpipe/internal/etl/errkind"
	"github.com/healthpipe/healthpipe/internal/etl/record"
)

// watermarkGlobalKey groups readings that carry no patient_id for the
// timestamp-order check.
const watermarkGlobalKey = "global"

// Result partitions one transformed batch.
type Result struct {
	Patients []*patient.Patient
	Readings []*reading.DeviceReading
	Errors   []*quarantine.ErrorRecord
}

// Pipeline drives the transformer across a whole batch. Patients are
// independent; device readings are processed in strict input order while a
// per-patient timestamp watermark detects out-of-order arrivals. The
// watermark check is order-sensitive, so reading processing is deliberately
// single-threaded.
type Pipeline struct {
	tr *Transformer
}

func NewPipeline(tr *Transformer) *Pipeline {
	if tr == nil {
		tr = New(nil)
	}
	return &Pipeline{tr: tr}
}

// Run transforms both collections and returns the valid/error partition.
// Valid entities preserve input order; error records appear in the order
// their causing check fired (field validation, then cross-field, then
// temporal). Structurally identical error records are emitted once.
func (p *Pipeline) Run(rawPatients, rawReadings []record.Raw) Result {
	var res Result
	seen := make(map[quarantine.ErrorRecord]bool)

	appendErrs := func(errs []*quarantine.ErrorRecord) {
		for _, e := range errs {
			if e == nil || seen[*e] {
				continue
			}
			seen[*e] = true
			res.Errors = append(res.Errors, e)
		}
	}

	for i, rec := range rawPatients {
		pt, errs := p.tr.Patient(rec, i)
		if pt != nil {
			res.Patients = append(res.Patients, pt)
		}
		appendErrs(errs)
	}

	// Highest timestamp seen so far per patient key. The watermark is a
	// monotonic high mark: an out-of-order reading is flagged but does not
	// regress or advance it.
	watermarks := make(map[string]time.Time)

	for i, rec := range rawReadings {
		dr, errs := p.tr.Reading(rec, i)
		appendErrs(errs)
		if dr == nil {
			continue
		}

		key := dr.PatientID
		if key == "" {
			key = watermarkGlobalKey
		}
		if wm, ok := watermarks[key]; ok && dr.Timestamp.Before(wm) {
			appendErrs([]*quarantine.ErrorRecord{{
				Reference:       dr.ID,
				SourceTable:     quarantine.SourceReadings,
				FieldName:       "timestamp",
				ErrorType:       errkind.TimestampOrder,
				CaseDescription: fmt.Sprintf("Timestamp %s is earlier than previous %s for key %s", dr.Timestamp.Format(time.RFC3339), wm.Format(time.RFC3339), key),
				OriginalValue:   dr.Timestamp.Format(time.RFC3339),
			}})
		} else {
			watermarks[key] = dr.Timestamp
		}

		// The anomaly is logged, not rejected: the reading stays valid.
		res.Readings = append(res.Readings, dr)
	}

	return res
}
