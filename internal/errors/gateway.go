package errors

import "net/http"

var (
	ErrUnauthenticated = &DomainError{
		Code:    "UNAUTHENTICATED",
		Message: "invalid or missing API key",
		Status:  http.StatusUnauthorized,
	}
	ErrMissingReference = &DomainError{
		Code:    "MISSING_REFERENCE",
		Message: "reference is required",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
		Status:  http.StatusBadRequest,
	}
	ErrDuplicateReference = &DomainError{
		Code:    "DUPLICATE_REFERENCE",
		Message: "reference already used by this merchant",
		Status:  http.StatusConflict,
	}
	ErrCheckoutNotFound = &DomainError{
		Code:    "CHECKOUT_NOT_FOUND",
		Message: "checkout not found",
		Status:  http.StatusNotFound,
	}
	ErrCheckoutFinalized = &DomainError{
		Code:    "CHECKOUT_FINALIZED",
		Message: "checkout has already been finalized",
		Status:  http.StatusConflict,
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient available balance",
		Status:  http.StatusUnprocessableEntity,
	}
	ErrPayoutNotFound = &DomainError{
		Code:    "PAYOUT_NOT_FOUND",
		Message: "payout not found",
		Status:  http.StatusNotFound,
	}
	ErrInvalidTransition = &DomainError{
		Code:    "INVALID_TRANSITION",
		Message: "payout state transition not allowed",
		Status:  http.StatusConflict,
	}
	ErrInvalidCallbackStatus = &DomainError{
		Code:    "INVALID_CALLBACK_STATUS",
		Message: "callback status must be SUCCESS or FAILED",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidDestination = &DomainError{
		Code:    "INVALID_DESTINATION",
		Message: "payout destination is invalid",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAccountNumber = &DomainError{
		Code:    "INVALID_ACCOUNT_NUMBER",
		Message: "account number format is invalid",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidSessionToken = &DomainError{
		Code:    "INVALID_SESSION_TOKEN",
		Message: "checkout session token is invalid or expired",
		Status:  http.StatusUnauthorized,
	}
	ErrInternal = &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "internal error",
		Status:  http.StatusInternalServerError,
	}
)
