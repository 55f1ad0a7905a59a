package load

import (
	"context"
	"testing"

	"github.com/healthpipe/healthpipe/internal/domain/patient"
	"github.com/healthpipe/healthpipe/internal/domain/quarantine"
	"github.com/healthpipe/healthpipe/internal/domain/reading"
	"github.com/healthpipe/healthpipe/internal/etl/errkind"
)

func testPatient(id string) *patient.Patient {
	return &patient.Patient{ID: id, Name: "Alice Wonderland", DOB: "1990-01-01"}
}

func testReading(id, patientID string) *reading.DeviceReading {
	g := 120.5
	return &reading.DeviceReading{ID: id, PatientID: patientID, Glucose: &g}
}

func TestMemoryLoader_InsertOrIgnore(t *testing.T) {
	l := NewMemoryLoader()
	ctx := context.Background()

	patients := []*patient.Patient{testPatient("p1")}
	readings := []*reading.DeviceReading{testReading("r1", "p1")}

	s, err := l.LoadEntities(ctx, patients, readings)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if s.LoadedPatients != 1 || s.LoadedReadings != 1 || len(s.Errors) != 0 {
		t.Fatalf("first load summary = %+v", s)
	}

	// replaying the batch loads nothing new and fails nothing
	s, err = l.LoadEntities(ctx, patients, readings)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if s.LoadedPatients != 0 || s.LoadedReadings != 0 || len(s.Errors) != 0 {
		t.Fatalf("replay summary = %+v", s)
	}
	if l.PatientCount() != 1 || l.ReadingCount() != 1 {
		t.Errorf("stored counts = %d patients, %d readings", l.PatientCount(), l.ReadingCount())
	}
}

func TestMemoryLoader_ContinuesPastRecordFailure(t *testing.T) {
	l := NewMemoryLoader()
	l.FailRefs = map[string]bool{"p2": true}

	patients := []*patient.Patient{testPatient("p1"), testPatient("p2"), testPatient("p3")}
	s, err := l.LoadEntities(context.Background(), patients, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if s.LoadedPatients != 2 {
		t.Errorf("loaded = %d, want 2", s.LoadedPatients)
	}
	if len(s.Errors) != 1 {
		t.Fatalf("errors = %+v", s.Errors)
	}
	le := s.Errors[0]
	if le.Type != errkind.PatientInsertError || le.Reference != "p2" {
		t.Errorf("load error = %+v", le)
	}
	if _, ok := l.Patient("p3"); !ok {
		t.Error("record after the failure was not loaded")
	}
}

func TestMemoryLoader_ErrorRecordsAppend(t *testing.T) {
	l := NewMemoryLoader()
	recs := []*quarantine.ErrorRecord{
		{Reference: "p9", SourceTable: quarantine.SourcePatients, FieldName: "email", ErrorType: errkind.InvalidFormat},
		{Reference: "p9", SourceTable: quarantine.SourcePatients, FieldName: "email", ErrorType: errkind.InvalidFormat},
	}

	s, err := l.LoadErrorRecords(context.Background(), recs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// error records are append-only; dedup happens upstream in the transform
	if s.LoadedErrors != 2 || len(l.ErrorRecords()) != 2 {
		t.Errorf("loaded = %d, stored = %d", s.LoadedErrors, len(l.ErrorRecords()))
	}
}

func TestMemoryLoader_ErrorRecordFailureIsolated(t *testing.T) {
	l := NewMemoryLoader()
	l.FailRefs = map[string]bool{"r2": true}
	recs := []*quarantine.ErrorRecord{
		{Reference: "r1", SourceTable: quarantine.SourceReadings, ErrorType: errkind.ValueError},
		{Reference: "r2", SourceTable: quarantine.SourceReadings, ErrorType: errkind.ValueError},
		{Reference: "r3", SourceTable: quarantine.SourceReadings, ErrorType: errkind.ValueError},
	}

	s, err := l.LoadErrorRecords(context.Background(), recs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.LoadedErrors != 2 {
		t.Errorf("loaded = %d, want 2", s.LoadedErrors)
	}
	if len(s.Errors) != 1 || s.Errors[0].Type != errkind.ErrorRecordInsertError {
		t.Errorf("errors = %+v", s.Errors)
	}
}
