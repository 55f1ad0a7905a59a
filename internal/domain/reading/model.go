package reading

import "time"

// DeviceReading maps to the device_readings table. All measurement fields are
// optional; absence means the device did not report that biometric, not an
// error. PatientID is empty when the source record carried none — the
// transformer does not check referential existence.
type DeviceReading struct {
	ID          string    `db:"id" json:"id"`
	PatientID   string    `db:"patient_id" json:"patient_id,omitempty"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	Glucose     *float64  `db:"glucose" json:"glucose,omitempty"`
	SystolicBP  *int      `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP *int      `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	Weight      *float64  `db:"weight" json:"weight,omitempty"`
}

// Biometric selects which measurement a reading query filters on.
type Biometric string

const (
	BiometricAny           Biometric = ""
	BiometricGlucose       Biometric = "glucose"
	BiometricBloodPressure Biometric = "blood_pressure"
	BiometricWeight        Biometric = "weight"
)

// ParseBiometric maps a query-parameter value onto a Biometric filter.
func ParseBiometric(s string) (Biometric, bool) {
	switch Biometric(s) {
	case BiometricAny, BiometricGlucose, BiometricBloodPressure, BiometricWeight:
		return Biometric(s), true
	}
	return BiometricAny, false
}
