// Package outbox relays domain events to merchants. Events are written in
// the same store transaction as the state change that produced them; the
// relay polls undelivered events and hands them to the webhook dispatcher,
// marking an event delivered only after dispatcher acknowledgment.
// Delivery is at-least-once; consumers dedupe by event id.
package outbox

import (
	"context"
	"log"
	"time"

	"paygate/internal/models"
	"paygate/internal/repositories"
)

// Deliverer performs a single delivery attempt.
type Deliverer interface {
	Deliver(ctx context.Context, merchant *models.Merchant, event *models.OutboxEvent) error
}

type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BackoffBase  time.Duration
}

type Relay struct {
	repo      repositories.OutboxRepository
	merchants repositories.MerchantRepository
	deliverer Deliverer
	cfg       Config
	now       func() time.Time
}

func NewRelay(repo repositories.OutboxRepository, merchants repositories.MerchantRepository, deliverer Deliverer, cfg Config) *Relay {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 5 * time.Second
	}
	return &Relay{
		repo:      repo,
		merchants: merchants,
		deliverer: deliverer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.ProcessOnce(ctx); err != nil {
				log.Printf("outbox relay cycle failed: %v", err)
			}
		}
	}
}

// ProcessOnce attempts delivery for at most one event per merchant, in
// creation order. An undelivered event blocks later events for the same
// merchant until it is delivered or permanently failed, preserving the
// per-merchant ordering guarantee. Returns the number of events delivered.
func (r *Relay) ProcessOnce(ctx context.Context) (int, error) {
	events, err := r.repo.ListUndelivered(ctx, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	blocked := make(map[uint]bool)
	for i := range events {
		event := events[i]
		if blocked[event.MerchantID] {
			continue
		}
		blocked[event.MerchantID] = true

		if r.now().Before(event.NextAttemptAt) {
			continue
		}

		if err := r.attempt(ctx, &event); err != nil {
			log.Printf("delivery attempt for event %s failed: %v", event.ID, err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

func (r *Relay) attempt(ctx context.Context, event *models.OutboxEvent) error {
	merchant, err := r.merchants.GetByID(ctx, event.MerchantID)
	if err != nil {
		return err
	}

	if err := r.deliverer.Deliver(ctx, merchant, event); err != nil {
		return r.recordFailure(ctx, event, err)
	}
	return r.repo.MarkDelivered(ctx, event.ID, r.now().UTC())
}

func (r *Relay) recordFailure(ctx context.Context, event *models.OutboxEvent, cause error) error {
	attempts := event.Attempts + 1
	if attempts >= r.cfg.MaxAttempts {
		log.Printf("event %s permanently failed after %d attempts: %v", event.ID, attempts, cause)
		if err := r.repo.MarkFailed(ctx, event.ID, attempts, cause.Error()); err != nil {
			return err
		}
		return cause
	}

	next := r.now().UTC().Add(r.backoff(attempts))
	if err := r.repo.Reschedule(ctx, event.ID, attempts, next, cause.Error()); err != nil {
		return err
	}
	return cause
}

// backoff doubles per attempt: base, 2*base, 4*base ...
func (r *Relay) backoff(attempts int) time.Duration {
	d := r.cfg.BackoffBase
	for i := 1; i < attempts; i++ {
		d *= 2
	}
	return d
}
