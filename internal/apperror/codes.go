package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeInvalidPrivateKey  Code = "INVALID_PRIVATE_KEY"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Ledger error codes
const (
	CodeLedgerUnreachable   Code = "LEDGER_UNREACHABLE"
	CodeLedgerRPCError      Code = "LEDGER_RPC_ERROR"
	CodeInvalidSignature    Code = "INVALID_SIGNATURE"
	CodeGasEstimationFailed Code = "GAS_ESTIMATION_FAILED"
	CodeTransactionFailed   Code = "TRANSACTION_FAILED"
	CodeTransactionEncoding Code = "TRANSACTION_ENCODING"
)

// Swap error codes
const (
	CodePoolNotFound        Code = "POOL_NOT_FOUND"
	CodeAssetNotFound       Code = "ASSET_NOT_FOUND"
	CodeNoFunds             Code = "NO_FUNDS"
	CodeInsufficientBalance Code = "INSUFFICIENT_BALANCE"
	CodeZeroAmount          Code = "ZERO_AMOUNT"
	CodePositionNotFound    Code = "POSITION_NOT_FOUND"
	CodeInvalidRegistry     Code = "INVALID_REGISTRY"
)

// Reporting / storage error codes
const (
	CodeLeaderboardUnavailable Code = "LEADERBOARD_UNAVAILABLE"
	CodeJournalError           Code = "JOURNAL_ERROR"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitConfig      = 2
	ExitUnavailable = 12
	ExitInterrupted = 130
)

// Configuration reports whether the code points at bad input files or
// settings rather than a runtime failure.
func (c Code) Configuration() bool {
	switch c {
	case CodeConfigurationError,
		CodeInvalidPrivateKey,
		CodeInvalidRegistry,
		CodeRequiredField,
		CodeInvalidInput,
		CodeInvalidFormat,
		CodeValidationError:
		return true
	}
	return false
}

// Transient reports whether an error with this code is worth retrying.
func (c Code) Transient() bool {
	switch c {
	case CodeServiceTimeout,
		CodeServiceUnavailable,
		CodeRateLimitExceeded,
		CodeLedgerUnreachable,
		CodeCircuitOpen:
		return true
	}
	return false
}

// Skippable reports whether the code describes an expected operational
// condition (nothing to swap) rather than a failure.
func (c Code) Skippable() bool {
	switch c {
	case CodeNoFunds, CodeInsufficientBalance, CodeZeroAmount:
		return true
	}
	return false
}
