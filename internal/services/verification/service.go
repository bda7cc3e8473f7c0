// Package verification pre-checks payout destinations. It shares the
// payout engine's validators and has no side effects; the simulated
// outcomes are keyed deterministically by account-number suffix.
package verification

import (
	"context"
	"strings"

	"paygate/internal/models"
	"paygate/internal/repositories"
	"paygate/internal/validation"
)

type Result struct {
	IsValid      bool   `json:"isValid"`
	AccountTitle string `json:"accountTitle,omitempty"`
	Message      string `json:"message"`
}

type Request struct {
	DestType      string
	AccountNumber string
	BankCode      string
	WalletCode    string
}

type Service interface {
	VerifyAccount(ctx context.Context, req Request) (*Result, error)
}

type service struct {
	directory repositories.DirectoryRepository
}

func NewService(directory repositories.DirectoryRepository) Service {
	if directory == nil {
		panic("directory repository is required")
	}
	return &service{directory: directory}
}

func (s *service) VerifyAccount(ctx context.Context, req Request) (*Result, error) {
	if err := validation.DestType(req.DestType); err != nil {
		return &Result{IsValid: false, Message: "unknown destination type"}, nil
	}
	if err := validation.AccountNumber(req.AccountNumber); err != nil {
		return &Result{IsValid: false, Message: "invalid account number format"}, nil
	}

	switch req.DestType {
	case models.DestTypeBank:
		bank, err := s.directory.GetActiveBank(ctx, req.BankCode)
		if err != nil {
			return nil, err
		}
		if bank == nil {
			return &Result{IsValid: false, Message: "unknown or inactive bank code"}, nil
		}
	case models.DestTypeWallet:
		wallet, err := s.directory.GetActiveWallet(ctx, req.WalletCode)
		if err != nil {
			return nil, err
		}
		if wallet == nil {
			return &Result{IsValid: false, Message: "unknown or inactive wallet code"}, nil
		}
	}

	switch {
	case strings.HasSuffix(req.AccountNumber, "0003"):
		return &Result{IsValid: false, Message: "account failed validation"}, nil
	case strings.HasSuffix(req.AccountNumber, "0005"):
		return &Result{IsValid: false, Message: "account is blocked"}, nil
	}

	last4 := req.AccountNumber[len(req.AccountNumber)-4:]
	return &Result{
		IsValid:      true,
		AccountTitle: "Test Account Holder " + last4,
		Message:      "account verified",
	}, nil
}
