package errors

import "net/http"

type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeNotFound         Code = "NOT_FOUND"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePaymentRequired  Code = "PAYMENT_REQUIRED"
	CodeInternal         Code = "INTERNAL"
)

// HTTPStatus maps an error code to the status the HTTP mirror responds with.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePaymentRequired:
		// The original API surfaced the paywall as 403 with a CHAT_LOCKED
		// code in the body; clients key off the code, not the status.
		return http.StatusForbidden
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
