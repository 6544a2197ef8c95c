package errors

// ErrorCode identifies an application error category. Codes are stable:
// clients and log pipelines match on them, so renumbering is a breaking
// change.
type ErrorCode int32

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// Generic
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1004
	ErrorCode_FORBIDDEN        ErrorCode = 1005

	// Upload validation
	ErrorCode_MISSING_FILE           ErrorCode = 2000
	ErrorCode_PAYLOAD_TOO_LARGE      ErrorCode = 2001
	ErrorCode_UNSUPPORTED_MEDIA_TYPE ErrorCode = 2002

	// Pipeline
	ErrorCode_TRANSCRIPTION_FAILED ErrorCode = 3000
	ErrorCode_SUMMARIZATION_FAILED ErrorCode = 3001
	ErrorCode_STORAGE_FAILED       ErrorCode = 3002

	// Auth
	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = 4000
	ErrorCode_AUTH_INVALID_TOKEN       ErrorCode = 4001
	ErrorCode_AUTH_SESSION_EXPIRED     ErrorCode = 4002
	ErrorCode_AUTH_EMAIL_TAKEN         ErrorCode = 4003
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                  "OK",
	ErrorCode_INTERNAL:                 "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:         "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:           "ALREADY_EXISTS",
	ErrorCode_UNAUTHENTICATED:          "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                "FORBIDDEN",
	ErrorCode_MISSING_FILE:             "MISSING_FILE",
	ErrorCode_PAYLOAD_TOO_LARGE:        "PAYLOAD_TOO_LARGE",
	ErrorCode_UNSUPPORTED_MEDIA_TYPE:   "UNSUPPORTED_MEDIA_TYPE",
	ErrorCode_TRANSCRIPTION_FAILED:     "TRANSCRIPTION_FAILED",
	ErrorCode_SUMMARIZATION_FAILED:     "SUMMARIZATION_FAILED",
	ErrorCode_STORAGE_FAILED:           "STORAGE_FAILED",
	ErrorCode_AUTH_INVALID_CREDENTIALS: "AUTH_INVALID_CREDENTIALS",
	ErrorCode_AUTH_INVALID_TOKEN:       "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_SESSION_EXPIRED:     "AUTH_SESSION_EXPIRED",
	ErrorCode_AUTH_EMAIL_TAKEN:         "AUTH_EMAIL_TAKEN",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
