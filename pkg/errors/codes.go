package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeDatabaseError      ErrorCode = "COMMON_007"
	ErrCodeCacheError         ErrorCode = "COMMON_008"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_009"
	ErrCodeNotImplemented     ErrorCode = "COMMON_010"
)

// Short aliases used at call sites throughout the engine.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// Benchmark module error codes.
const (
	ErrCodeBenchmarkStoreUnavailable ErrorCode = "BMK_001"
	ErrCodeBenchmarkNotFound         ErrorCode = "BMK_002"
)

// Inference module error codes.
const (
	ErrCodeInferenceInputInvalid ErrorCode = "INF_001"
)

// Valuation module error codes.
const (
	ErrCodeValuationInputInvalid ErrorCode = "VAL_001"
)

// Fit score module error codes.
const (
	ErrCodeFitScoreInputInvalid ErrorCode = "FIT_001"
)

// Quality checks module error codes.
const (
	ErrCodeQualityInputInvalid ErrorCode = "QCK_001"
)

// Pipeline module error codes.
const (
	ErrCodeOpportunityInvalid ErrorCode = "PIP_001"
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeBenchmarkStoreUnavailable: "benchmark store unavailable",
	ErrCodeBenchmarkNotFound:         "industry benchmark not found",

	ErrCodeInferenceInputInvalid: "invalid input for financial inference",
	ErrCodeValuationInputInvalid: "invalid input for valuation scenario",
	ErrCodeFitScoreInputInvalid:  "invalid input for fit scoring",
	ErrCodeQualityInputInvalid:   "invalid financial period data",
	ErrCodeOpportunityInvalid:    "invalid pipeline opportunity",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
