package load

import (
	"context"
	"fmt"
	"sync"

	"github.com/healthpipe/healthpipe/internal/domain/patient"
	"github.com/healthpipe/healthpipe/internal/domain/quarantine"
	"github.com/healthpipe/healthpipe/internal/domain/reading"
	"github.com/healthpipe/healthpipe/internal/etl/errkind"
)

// MemoryLoader is the in-memory backing store used in tests and local runs.
// It preserves the loader contract exactly: insert-or-ignore on primary key,
// per-record failure isolation, append-only error records.
type MemoryLoader struct {
	mu       sync.Mutex
	patients map[string]*patient.Patient
	readings map[string]*reading.DeviceReading
	errors   []*quarantine.ErrorRecord

	// FailRefs simulates a record-level insert failure for the given
	// reference ids, for exercising continue-on-error behavior in tests.
	FailRefs map[string]bool
}

func NewMemoryLoader() *MemoryLoader {
	return &MemoryLoader{
		patients: make(map[string]*patient.Patient),
		readings: make(map[string]*reading.DeviceReading),
	}
}

func (l *MemoryLoader) LoadEntities(ctx context.Context, patients []*patient.Patient, readings []*reading.DeviceReading) (*Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := &Summary{}
	for _, p := range patients {
		if l.FailRefs[p.ID] {
			summary.Errors = append(summary.Errors, Error{
				Type:        errkind.PatientInsertError,
				Reference:   p.ID,
				Description: fmt.Sprintf("simulated insert failure for %s", p.ID),
			})
			continue
		}
		if _, exists := l.patients[p.ID]; exists {
			continue
		}
		l.patients[p.ID] = p
		summary.LoadedPatients++
	}
	for _, r := range readings {
		if l.FailRefs[r.ID] {
			summary.Errors = append(summary.Errors, Error{
				Type:        errkind.ReadingInsertError,
				Reference:   r.ID,
				Description: fmt.Sprintf("simulated insert failure for %s", r.ID),
			})
			continue
		}
		if _, exists := l.readings[r.ID]; exists {
			continue
		}
		l.readings[r.ID] = r
		summary.LoadedReadings++
	}
	return summary, nil
}

func (l *MemoryLoader) LoadErrorRecords(ctx context.Context, records []*quarantine.ErrorRecord) (*ErrorSummary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := &ErrorSummary{}
	for _, e := range records {
		if l.FailRefs[e.Reference] {
			summary.Errors = append(summary.Errors, Error{
				Type:        errkind.ErrorRecordInsertError,
				Reference:   e.Reference,
				Description: fmt.Sprintf("simulated insert failure for %s", e.Reference),
			})
			continue
		}
		l.errors = append(l.errors, e)
		summary.LoadedErrors++
	}
	return summary, nil
}

// PatientCount returns the number of stored patients.
func (l *MemoryLoader) PatientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.patients)
}

// ReadingCount returns the number of stored readings.
func (l *MemoryLoader) ReadingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.readings)
}

// ErrorRecords returns the quarantine trail in insertion order.
func (l *MemoryLoader) ErrorRecords() []*quarantine.ErrorRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*quarantine.ErrorRecord, len(l.errors))
	copy(out, l.errors)
	return out
}

// Patient returns a stored patient by id.
func (l *MemoryLoader) Patient(id string) (*patient.Patient, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.patients[id]
	return p, ok
}

// Reading returns a stored reading by id.
func (l *MemoryLoader) Reading(id string) (*reading.DeviceReading, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.readings[id]
	return r, ok
}
