package model

import "time"

// Authentication methods reported to AuthMetrics.
const (
	MethodPassword = "password"
	MethodProvider = "provider"
	MethodRegister = "register"
)

// AuthMetrics receives authentication telemetry.
// An empty kind means the operation succeeded.
type AuthMetrics interface {
	RecordAttempt(method string, kind Kind, elapsed time.Duration)
	RecordTokenIssued()
	RecordTokenValidation(kind Kind)
}
