package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindsSurviveWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"validation", ValidationError("amount must be greater than zero"), ErrorValidation},
		{"authorization", AuthorizationError("only Admins can approve requests"), ErrorAuthorization},
		{"not found", NotFoundError("fund request %d", 42), ErrorRecordNotFound},
		{"conflict", ConflictError("fund request %d is not approved", 42), ErrorConflict},
		{"insufficient funds", InsufficientFundsError("budget is short"), ErrorInsufficientFunds},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.kind) {
				t.Fatalf("expected %v to match kind %v", tc.err, tc.kind)
			}
			wrapped := fmt.Errorf("outer: %w", tc.err)
			if !errors.Is(wrapped, tc.kind) {
				t.Fatalf("expected wrapped %v to match kind %v", wrapped, tc.kind)
			}
			if !IsBusinessError(tc.err) {
				t.Fatalf("expected %v to be a business error", tc.err)
			}
		})
	}
}

func TestSystemErrorsAreNotBusinessErrors(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	if IsBusinessError(err) {
		t.Fatalf("system error misclassified as business error")
	}
	if IsBusinessError(nil) {
		t.Fatalf("nil misclassified as business error")
	}
}
