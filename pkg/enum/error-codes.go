package enum

// ErrorCode is a machine-readable error identifier returned in API error bodies.
type ErrorCode string

const (
	ApiError            ErrorCode = "InternalServerError"
	NotFound            ErrorCode = "NotFound"
	AlreadyExists       ErrorCode = "AlreadyExists"
	MalformedRequest    ErrorCode = "MalformedRequest"
	TooManyRequests     ErrorCode = "TooManyRequests"
	InvalidCookie       ErrorCode = "InvalidCookie"
	WrongCredentials    ErrorCode = "WrongCredentials"
	Unauthorized        ErrorCode = "Unauthorized"
	ExpiredToken        ErrorCode = "ExpiredToken"
	InvalidRefreshToken ErrorCode = "InvalidRefreshToken"
	NotBroadcastable    ErrorCode = "NotBroadcastable"
)
