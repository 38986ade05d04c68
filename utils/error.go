package utils

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers classify with errors.Is; handlers map kinds
// to HTTP statuses. Anything that does not match a kind is a system error.
var (
	ErrorRecordNotFound    = errors.New("record not found")
	ErrorValidation        = errors.New("validation failed")
	ErrorAuthorization     = errors.New("permission denied")
	ErrorConflict          = errors.New("conflict")
	ErrorInsufficientFunds = errors.New("insufficient funds")
)

func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorValidation, fmt.Sprintf(format, args...))
}

func AuthorizationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorAuthorization, fmt.Sprintf(format, args...))
}

func NotFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorRecordNotFound, fmt.Sprintf(format, args...))
}

func ConflictError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorConflict, fmt.Sprintf(format, args...))
}

func InsufficientFundsError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorInsufficientFunds, fmt.Sprintf(format, args...))
}

// IsBusinessError reports whether err is a definitive rejection rather than
// a system failure. Business rejections never leave partial ledger state and
// are never retried.
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrorValidation) ||
		errors.Is(err, ErrorAuthorization) ||
		errors.Is(err, ErrorRecordNotFound) ||
		errors.Is(err, ErrorConflict) ||
		errors.Is(err, ErrorInsufficientFunds)
}
