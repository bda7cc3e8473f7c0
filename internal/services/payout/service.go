// Package payout drives the payout state machine. Funds are reserved on
// the merchant balance before submission and only debited once the PSP
// confirms success; every transition on a payout serializes on its row
// lock.
package payout

import (
	"context"
	"fmt"
	"log"
	"time"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"
	"paygate/internal/repositories"
	"paygate/internal/services/audit"
	"paygate/internal/services/ledger"
	"paygate/internal/services/outbox"
	"paygate/internal/services/psp"
	"paygate/internal/validation"

	"github.com/google/uuid"
)

type Service interface {
	Request(ctx context.Context, merchant *models.Merchant, req Request) (*models.Payout, error)
	Get(ctx context.Context, merchantID uint, payoutID string) (*models.Payout, error)
	HandleCallback(ctx context.Context, cb Callback) (*models.Payout, error)
	Hold(ctx context.Context, payoutID, reason string) error
	Resume(ctx context.Context, payoutID string) error
	Flag(ctx context.Context, payoutID, reason string) error
	Review(ctx context.Context, payoutID string, approve bool, reason string) error
	RequeueStale(ctx context.Context) (int, error)
}

type Request struct {
	Reference     string
	Amount        float64
	DestType      string
	BankCode      string
	WalletCode    string
	AccountNumber string
	AccountTitle  string
}

// Callback carries an IPN notification from the PSP.
type Callback struct {
	PayoutID      string
	Status        models.PayoutStatus
	PSPReference  string
	FailureReason string
}

type Config struct {
	// ProcessingDwell is how long a payout may sit in PROCESSING without
	// a PSP response before the sweep moves it to RETRY.
	ProcessingDwell time.Duration
	SweepBatchSize  int
}

type service struct {
	repo      repositories.PayoutRepository
	directory repositories.DirectoryRepository
	ledger    ledger.Service
	psp       psp.Client
	audit     audit.Service
	cfg       Config
}

func NewService(repo repositories.PayoutRepository, directory repositories.DirectoryRepository, ledgerSvc ledger.Service, pspClient psp.Client, auditSvc audit.Service, cfg Config) Service {
	if repo == nil {
		panic("payout repository is required")
	}
	if directory == nil {
		panic("directory repository is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	if pspClient == nil {
		panic("psp client is required")
	}
	if cfg.ProcessingDwell <= 0 {
		cfg.ProcessingDwell = 15 * time.Minute
	}
	if cfg.SweepBatchSize <= 0 {
		cfg.SweepBatchSize = 50
	}
	return &service{
		repo:      repo,
		directory: directory,
		ledger:    ledgerSvc,
		psp:       pspClient,
		audit:     auditSvc,
		cfg:       cfg,
	}
}

func (s *service) Request(ctx context.Context, merchant *models.Merchant, req Request) (*models.Payout, error) {
	if req.Amount <= 0 {
		return nil, domainerr.ErrInvalidAmount
	}
	if err := s.validateDestination(ctx, req); err != nil {
		return nil, err
	}

	payout := &models.Payout{
		ID:            uuid.NewString(),
		MerchantID:    merchant.ID,
		Reference:     req.Reference,
		DestType:      req.DestType,
		BankCode:      req.BankCode,
		WalletCode:    req.WalletCode,
		AccountNumber: req.AccountNumber,
		AccountTitle:  req.AccountTitle,
		Amount:        req.Amount,
		Status:        models.PayoutStatusPending,
	}

	// Reserve the funds and persist the payout atomically; an
	// insufficient balance leaves no payout record behind.
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.PayoutRepository) error {
		if err := s.ledger.LockTx(ctx, tx.Ledger(), merchant.ID, req.Amount); err != nil {
			return err
		}
		return tx.Create(ctx, payout)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.InvalidateBalance(ctx, merchant.ID)

	if err := s.submit(ctx, payout.ID); err != nil {
		// Funds stay locked; the sweep will retry the submission.
		log.Printf("payout %s submission failed, left for sweep: %v", payout.ID, err)
	}

	return s.repo.GetByID(ctx, payout.ID)
}

func (s *service) validateDestination(ctx context.Context, req Request) error {
	if err := validation.DestType(req.DestType); err != nil {
		return err
	}
	if err := validation.AccountNumber(req.AccountNumber); err != nil {
		return err
	}
	switch req.DestType {
	case models.DestTypeBank:
		bank, err := s.directory.GetActiveBank(ctx, req.BankCode)
		if err != nil {
			return err
		}
		if bank == nil {
			return domainerr.ErrInvalidDestination
		}
	case models.DestTypeWallet:
		wallet, err := s.directory.GetActiveWallet(ctx, req.WalletCode)
		if err != nil {
			return err
		}
		if wallet == nil {
			return domainerr.ErrInvalidDestination
		}
	}
	return nil
}

// submit hands the payout to the PSP and moves it to PROCESSING with the
// expected PSP reference. The PSP call happens outside any store
// transaction: a slow partner must never stall the payout row lock. The
// transition afterwards re-checks the state under the lock, so a payout
// held or flagged in the meantime stays put and the sweep resubmits it.
func (s *service) submit(ctx context.Context, payoutID string) error {
	payout, err := s.repo.GetByID(ctx, payoutID)
	if err != nil {
		return err
	}
	if !CanTransition(payout.Status, models.PayoutStatusProcessing) {
		return domainerr.ErrInvalidTransition
	}

	ref, err := s.psp.SubmitPayout(ctx, payout)
	if err != nil {
		return fmt.Errorf("psp submission failed: %w", err)
	}

	return s.transition(ctx, payoutID, models.PayoutStatusProcessing, func(p *models.Payout) {
		now := time.Now().UTC()
		p.PSPReference = ref
		p.SubmittedAt = &now
	})
}

func (s *service) Get(ctx context.Context, merchantID uint, payoutID string) (*models.Payout, error) {
	payout, err := s.repo.GetByID(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.MerchantID != merchantID {
		return nil, domainerr.ErrPayoutNotFound
	}
	return payout, nil
}

// HandleCallback applies a PSP outcome. On SUCCESS the reserved funds are
// debited and the lock released; on FAILED the lock is released without a
// debit. A PAYOUT_UPDATED event is enqueued in the same transaction.
func (s *service) HandleCallback(ctx context.Context, cb Callback) (*models.Payout, error) {
	if cb.Status != models.PayoutStatusSuccess && cb.Status != models.PayoutStatusFailed {
		return nil, domainerr.ErrInvalidCallbackStatus
	}

	var result *models.Payout
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.PayoutRepository) error {
		payout, err := tx.GetByIDForUpdate(ctx, cb.PayoutID)
		if err != nil {
			return err
		}
		if !CanTransition(payout.Status, cb.Status) {
			return domainerr.ErrInvalidTransition
		}

		if err := s.ledger.UnlockTx(ctx, tx.Ledger(), payout.MerchantID, payout.Amount); err != nil {
			return err
		}
		if cb.Status == models.PayoutStatusSuccess {
			_, err := s.ledger.DebitTx(ctx, tx.Ledger(), payout.MerchantID, payout.Amount,
				"payout "+payout.ID,
				models.NewJSON(map[string]interface{}{
					"payout_id":     payout.ID,
					"psp_reference": cb.PSPReference,
				}))
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		payout.Status = cb.Status
		payout.ProcessedAt = &now
		payout.FailureReason = cb.FailureReason
		if cb.PSPReference != "" {
			payout.PSPReference = cb.PSPReference
		}
		if err := tx.Update(ctx, payout); err != nil {
			return err
		}

		event, err := outbox.NewEvent(payout.MerchantID, models.EventPayoutUpdated, payout)
		if err != nil {
			return err
		}
		if err := tx.CreateOutboxEvent(ctx, event); err != nil {
			return err
		}

		result = payout
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.ledger.InvalidateBalance(ctx, result.MerchantID)
	return result, nil
}

func (s *service) Hold(ctx context.Context, payoutID, reason string) error {
	err := s.transition(ctx, payoutID, models.PayoutStatusOnHold, func(p *models.Payout) {
		p.FailureReason = ""
	})
	if err != nil {
		return err
	}
	s.recordAction(ctx, payoutID, models.AuditActionPayoutHold, reason)
	return nil
}

func (s *service) Resume(ctx context.Context, payoutID string) error {
	err := s.transition(ctx, payoutID, models.PayoutStatusProcessing, func(p *models.Payout) {
		now := time.Now().UTC()
		p.SubmittedAt = &now
	})
	if err != nil {
		return err
	}
	s.recordAction(ctx, payoutID, models.AuditActionPayoutResume, "")
	return nil
}

func (s *service) Flag(ctx context.Context, payoutID, reason string) error {
	err := s.transition(ctx, payoutID, models.PayoutStatusInReview, nil)
	if err != nil {
		return err
	}
	s.recordAction(ctx, payoutID, models.AuditActionPayoutReview, reason)
	return nil
}

// Review approves or denies a flagged payout. Approval resubmits it;
// denial is terminal and releases the reserved funds.
func (s *service) Review(ctx context.Context, payoutID string, approve bool, reason string) error {
	if approve {
		err := s.transition(ctx, payoutID, models.PayoutStatusProcessing, func(p *models.Payout) {
			now := time.Now().UTC()
			p.SubmittedAt = &now
		})
		if err != nil {
			return err
		}
		s.recordAction(ctx, payoutID, models.AuditActionPayoutReview, "approved")
		return nil
	}

	var merchantID uint
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.PayoutRepository) error {
		payout, err := tx.GetByIDForUpdate(ctx, payoutID)
		if err != nil {
			return err
		}
		if !CanTransition(payout.Status, models.PayoutStatusFailed) {
			return domainerr.ErrInvalidTransition
		}
		if err := s.ledger.UnlockTx(ctx, tx.Ledger(), payout.MerchantID, payout.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()
		payout.Status = models.PayoutStatusFailed
		payout.ProcessedAt = &now
		payout.FailureReason = reason
		if err := tx.Update(ctx, payout); err != nil {
			return err
		}

		event, err := outbox.NewEvent(payout.MerchantID, models.EventPayoutUpdated, payout)
		if err != nil {
			return err
		}
		if err := tx.CreateOutboxEvent(ctx, event); err != nil {
			return err
		}
		merchantID = payout.MerchantID
		return nil
	})
	if err != nil {
		return err
	}
	s.ledger.InvalidateBalance(ctx, merchantID)
	s.recordAction(ctx, payoutID, models.AuditActionPayoutReview, "denied: "+reason)
	return nil
}

// RequeueStale moves payouts that exceeded the PROCESSING dwell time to
// RETRY and resubmits them. Run periodically from the server.
func (s *service) RequeueStale(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.ProcessingDwell)
	stale, err := s.repo.ListProcessingBefore(ctx, cutoff, s.cfg.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	requeued := 0
	for _, p := range stale {
		if err := s.transition(ctx, p.ID, models.PayoutStatusRetry, nil); err != nil {
			log.Printf("failed to move payout %s to retry: %v", p.ID, err)
			continue
		}
		if err := s.submit(ctx, p.ID); err != nil {
			log.Printf("failed to resubmit payout %s: %v", p.ID, err)
			continue
		}
		requeued++
	}
	return requeued, nil
}

func (s *service) transition(ctx context.Context, payoutID string, to models.PayoutStatus, mutate func(*models.Payout)) error {
	return s.repo.ExecuteInTransaction(ctx, func(tx repositories.PayoutRepository) error {
		payout, err := tx.GetByIDForUpdate(ctx, payoutID)
		if err != nil {
			return err
		}
		if !CanTransition(payout.Status, to) {
			return domainerr.ErrInvalidTransition
		}
		payout.Status = to
		if mutate != nil {
			mutate(payout)
		}
		return tx.Update(ctx, payout)
	})
}

func (s *service) recordAction(ctx context.Context, payoutID, action, detail string) {
	if s.audit == nil {
		return
	}
	payout, err := s.repo.GetByID(ctx, payoutID)
	if err != nil {
		return
	}
	if detail == "" {
		detail = "payout " + payoutID
	} else {
		detail = "payout " + payoutID + ": " + detail
	}
	s.audit.RecordAction(ctx, payout.MerchantID, action, detail)
}
