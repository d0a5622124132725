package errors

var (
	// Domain errors used by the chat service and storage layer
	ErrUnauthorized    = Unauthorized("missing or invalid credentials")
	ErrMatchNotFound   = NotFound("match not found")
	ErrMessageNotFound = NotFound("message not found")
	ErrAccessDenied    = Forbidden("not a participant of this match")
	ErrDeleteForbidden = Forbidden("only the sender can delete a message")
	ErrChatLocked      = PaymentRequired("unlock chat to share contacts")
	ErrSelfMatch       = InvalidArg("cannot start a match with yourself")
	ErrUserNotFound    = NotFound("user not found")
)

func ErrSendFailed(cause error) error {
	return Wrap(CodeInternal, "failed to send message", cause)
}

func ErrInboxFailed(cause error) error {
	return Wrap(CodeInternal, "failed to load inbox", cause)
}
