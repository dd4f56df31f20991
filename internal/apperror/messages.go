package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",
	CodeInvalidPrivateKey:  "Private key could not be decoded",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Ledger
	CodeLedgerUnreachable:   "Sui fullnode unreachable",
	CodeLedgerRPCError:      "Sui JSON-RPC call failed",
	CodeInvalidSignature:    "Transaction signature rejected",
	CodeGasEstimationFailed: "Gas estimation failed",
	CodeTransactionFailed:   "Transaction executed with failure status",
	CodeTransactionEncoding: "Transaction could not be encoded",

	// Swap
	CodePoolNotFound:        "Pool not found in registry",
	CodeAssetNotFound:       "Asset not found in registry",
	CodeNoFunds:             "Account holds no coins of this type",
	CodeInsufficientBalance: "Insufficient balance for requested amount",
	CodeZeroAmount:          "Swap amount resolves to zero",
	CodePositionNotFound:    "Position NFT not found",
	CodeInvalidRegistry:     "Invalid market registry",

	CodeLeaderboardUnavailable: "Leaderboard service unavailable",
	CodeJournalError:           "Swap journal error",

	CodeCircuitOpen: "Circuit breaker is open",
}
