// Package checkout creates and advances checkout records. A checkout
// transitions exactly once from pending to a terminal status; that
// transition, its ledger credit and its outbox event commit in one store
// transaction.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"
	"paygate/internal/repositories"
	"paygate/internal/services/ledger"
	"paygate/internal/services/outbox"
	"paygate/internal/services/scenario"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, merchant *models.Merchant, req CreateRequest) (*models.Checkout, error)
	Complete(ctx context.Context, checkoutID string, input CompleteInput) (*Result, error)
	Get(ctx context.Context, merchantID uint, checkoutID string) (*models.Checkout, error)
}

type CreateRequest struct {
	Reference     string
	Amount        float64
	PaymentMethod string
	PaymentType   string
	SuccessURL    string
	ReturnURL     string
}

type CompleteInput struct {
	MobileNumber string
	PIN          string
	SessionToken string
}

type Result struct {
	Checkout *models.Checkout
	Outcome  scenario.Outcome
	Success  bool
	Message  string
}

type service struct {
	repo     repositories.CheckoutRepository
	resolver *scenario.Resolver
	ledger   ledger.Service
	tokens   *TokenManager
	baseURL  string
}

func NewService(repo repositories.CheckoutRepository, resolver *scenario.Resolver, ledgerSvc ledger.Service, tokens *TokenManager, baseURL string) Service {
	if repo == nil {
		panic("checkout repository is required")
	}
	if resolver == nil {
		panic("scenario resolver is required")
	}
	if ledgerSvc == nil {
		panic("ledger service is required")
	}
	return &service{
		repo:     repo,
		resolver: resolver,
		ledger:   ledgerSvc,
		tokens:   tokens,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (s *service) Create(ctx context.Context, merchant *models.Merchant, req CreateRequest) (*models.Checkout, error) {
	if req.Amount <= 0 {
		return nil, domainerr.ErrInvalidAmount
	}
	if req.Reference == "" {
		return nil, domainerr.ErrMissingReference
	}

	if existing, err := s.repo.GetByReference(ctx, merchant.ID, req.Reference); err == nil && existing != nil {
		return nil, domainerr.ErrDuplicateReference
	}

	checkout := &models.Checkout{
		ID:            uuid.NewString(),
		MerchantID:    merchant.ID,
		Reference:     req.Reference,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentType,
		Status:        models.PaymentStatusPending,
		SuccessURL:    req.SuccessURL,
		ReturnURL:     req.ReturnURL,
	}

	url, err := s.checkoutURL(checkout)
	if err != nil {
		return nil, err
	}
	checkout.CheckoutURL = url

	if err := s.repo.Create(ctx, checkout); err != nil {
		return nil, err
	}
	return checkout, nil
}

// checkoutURL builds the stable hosted payment page URL, embedding a
// session token when token signing is configured.
func (s *service) checkoutURL(checkout *models.Checkout) (string, error) {
	url := fmt.Sprintf("%s/pay/%s", s.baseURL, checkout.ID)
	if s.tokens == nil {
		return url, nil
	}
	token, err := s.tokens.Generate(checkout.ID, checkout.MerchantID)
	if err != nil {
		return "", err
	}
	return url + "?token=" + token, nil
}

// Complete finalizes a pending checkout using the customer-supplied
// identifier. This is the only place a checkout mutates state: the second
// call for the same checkout fails with a conflict and triggers no side
// effects.
func (s *service) Complete(ctx context.Context, checkoutID string, input CompleteInput) (*Result, error) {
	if s.tokens != nil {
		if err := s.tokens.Validate(input.SessionToken, checkoutID); err != nil {
			return nil, err
		}
	}

	outcome := s.resolver.Resolve(input.MobileNumber)

	var finalized *models.Checkout
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.CheckoutRepository) error {
		checkout, err := tx.GetByIDForUpdate(ctx, checkoutID)
		if err != nil {
			return err
		}
		if checkout.Status != models.PaymentStatusPending {
			return domainerr.ErrCheckoutFinalized
		}

		now := time.Now().UTC()
		checkout.Status = outcome.Status
		checkout.StatusCode = outcome.StatusCode
		checkout.ScenarioName = outcome.Scenario
		checkout.CompletedAt = &now
		if err := tx.Update(ctx, checkout); err != nil {
			return err
		}

		eventType := models.EventPaymentFailed
		if outcome.Completed() {
			eventType = models.EventPaymentCompleted
			_, err := s.ledger.CreditTx(ctx, tx.Ledger(), checkout.MerchantID, checkout.Amount,
				"payment "+checkout.Reference,
				models.NewJSON(map[string]interface{}{
					"checkout_id": checkout.ID,
					"reference":   checkout.Reference,
				}))
			if err != nil {
				return err
			}
		}

		event, err := outbox.NewEvent(checkout.MerchantID, eventType, checkout)
		if err != nil {
			return err
		}
		if err := tx.CreateOutboxEvent(ctx, event); err != nil {
			return err
		}

		finalized = checkout
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Completed() {
		s.ledger.InvalidateBalance(ctx, finalized.MerchantID)
	}

	return &Result{
		Checkout: finalized,
		Outcome:  outcome,
		Success:  outcome.Completed(),
		Message:  outcome.Description,
	}, nil
}

func (s *service) Get(ctx context.Context, merchantID uint, checkoutID string) (*models.Checkout, error) {
	checkout, err := s.repo.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout.MerchantID != merchantID {
		// Do not reveal that the id exists for another merchant.
		return nil, domainerr.ErrCheckoutNotFound
	}
	return checkout, nil
}
