// Package audit records authentication attempts and sensitive state
// changes on an append-only side channel. Recording failures are logged
// and never propagated to the caller.
package audit

import (
	"context"
	"log"

	"paygate/internal/models"
	"paygate/internal/repositories"
)

type Service interface {
	RecordAuthAttempt(ctx context.Context, merchantID *uint, outcome, keyDigest, clientIP string)
	RecordAction(ctx context.Context, merchantID uint, action, detail string)
}

type service struct {
	repo repositories.AuditRepository
}

func NewService(repo repositories.AuditRepository) Service {
	if repo == nil {
		panic("audit repository is required")
	}
	return &service{repo: repo}
}

func (s *service) RecordAuthAttempt(ctx context.Context, merchantID *uint, outcome, keyDigest, clientIP string) {
	entry := &models.AuditLog{
		MerchantID: merchantID,
		Action:     models.AuditActionAuth,
		Outcome:    outcome,
		KeyDigest:  keyDigest,
		ClientIP:   clientIP,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("failed to record auth attempt: %v", err)
	}
}

func (s *service) RecordAction(ctx context.Context, merchantID uint, action, detail string) {
	entry := &models.AuditLog{
		MerchantID: &merchantID,
		Action:     action,
		Outcome:    models.AuditOutcomeOK,
		Detail:     detail,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("failed to record audit action %s: %v", action, err)
	}
}
