package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidType          ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidThreshold     ErrorCode = 104
	ErrCodeInvalidStdDev        ErrorCode = 105
	ErrCodeInvalidMultiplier    ErrorCode = 106
	ErrCodeInvalidOperator      ErrorCode = 107
	ErrCodeInvalidTimeframe     ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeDataUnavailable  ErrorCode = 200
	ErrCodeEmptySeries      ErrorCode = 201
	ErrCodeQueryFailed      ErrorCode = 202
	ErrCodeInsufficientData ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Strategy graph errors (400-499)
	ErrCodeCyclicGraph       ErrorCode = 400
	ErrCodeUnknownNode       ErrorCode = 401
	ErrCodeDanglingEdge      ErrorCode = 402
	ErrCodeInvalidNodeParams ErrorCode = 403
	ErrCodeVersionMismatch   ErrorCode = 404

	// Trading errors (500-599)
	ErrCodeOrderFailed  ErrorCode = 500
	ErrCodeInvalidPrice ErrorCode = 501

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError  ErrorCode = 600
	ErrCodeBacktestNoGraph      ErrorCode = 601
	ErrCodeBacktestNoDatasource ErrorCode = 602

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeInvalidProvider       ErrorCode = 702
)
