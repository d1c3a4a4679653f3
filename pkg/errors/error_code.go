package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidDateRange     ErrorCode = 120

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeNoDataFound           ErrorCode = 204
	ErrCodeWriteFailed           ErrorCode = 205

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound      ErrorCode = 400
	ErrCodeStrategyAlreadyExists ErrorCode = 401
	ErrCodeStrategyRuntimeError  ErrorCode = 402
	ErrCodeUnsupportedRole       ErrorCode = 403

	// Simulation errors (600-699)
	ErrCodeSimulationFailed ErrorCode = 600

	// Walk-forward errors (900-999)
	ErrCodeWindowPlanningFailed ErrorCode = 900
	ErrCodeOptimizationFailed   ErrorCode = 901
	ErrCodeWindowFailed         ErrorCode = 902
	ErrCodeCancelled            ErrorCode = 903

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800
)
