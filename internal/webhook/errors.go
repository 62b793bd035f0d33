package webhook

import "github.com/chris-alexander-pop/system-design-library/pkg/errors"

const (
	CodeInvalidPayload   errors.Code = "WEBHOOK_INVALID_PAYLOAD"
	CodeVerificationFail errors.Code = "WEBHOOK_VERIFICATION_FAILED"
)

func errInvalidPayload(err error) *errors.AppError {
	return errors.New(CodeInvalidPayload, "malformed webhook payload", err)
}

func errVerificationFailed() *errors.AppError {
	return errors.New(CodeVerificationFail, "webhook verify token mismatch", nil)
}
