// Package auth resolves a presented API key to an active merchant.
// Raw keys are never stored, compared or logged; only their SHA-256
// digest is. Every attempt, success or failure, is audited.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	domainerr "paygate/internal/errors"
	"paygate/internal/models"
	"paygate/internal/repositories"
	"paygate/internal/repositories/cache"
)

const merchantCacheTTL = 10 * time.Minute

type Service interface {
	Authenticate(ctx context.Context, rawKey, clientIP string) (*models.Merchant, error)
}

// KeyCache is the slice of the cache service auth depends on. Only the
// digest-to-merchant-id mapping is cached; the merchant row itself is
// loaded from the store on every request so deactivation and key
// rotation take effect immediately.
type KeyCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type service struct {
	merchants repositories.MerchantRepository
	cache     KeyCache
	audit     AuditRecorder
}

// AuditRecorder is the slice of the audit service auth depends on.
type AuditRecorder interface {
	RecordAuthAttempt(ctx context.Context, merchantID *uint, outcome, keyDigest, clientIP string)
}

func NewService(merchants repositories.MerchantRepository, keyCache KeyCache, audit AuditRecorder) Service {
	if merchants == nil {
		panic("merchant repository is required")
	}
	if audit == nil {
		panic("audit recorder is required")
	}
	if keyCache == nil {
		keyCache = (*cache.Service)(nil)
	}
	return &service{merchants: merchants, cache: keyCache, audit: audit}
}

// HashAPIKey returns the hex SHA-256 digest of a raw API key. The digest
// is the stored lookup key; the raw value is discarded after hashing.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *service) Authenticate(ctx context.Context, rawKey, clientIP string) (*models.Merchant, error) {
	if rawKey == "" {
		s.audit.RecordAuthAttempt(ctx, nil, models.AuditOutcomeUnauthorized, "", clientIP)
		return nil, domainerr.ErrUnauthenticated
	}

	digest := HashAPIKey(rawKey)

	merchant := s.lookup(ctx, digest)
	if merchant == nil {
		m, err := s.merchants.GetByAPIKeyHash(ctx, digest)
		if err != nil {
			s.audit.RecordAuthAttempt(ctx, nil, models.AuditOutcomeUnauthorized, digest, clientIP)
			return nil, domainerr.ErrUnauthenticated
		}
		merchant = m
		if err := s.cache.SetWithTTL(ctx, cache.MerchantKey(digest), merchant.ID, merchantCacheTTL); err != nil {
			log.Printf("failed to cache merchant lookup: %v", err)
		}
	}

	if !merchant.Active {
		s.audit.RecordAuthAttempt(ctx, &merchant.ID, models.AuditOutcomeInactive, digest, clientIP)
		return nil, domainerr.ErrUnauthenticated
	}

	s.audit.RecordAuthAttempt(ctx, &merchant.ID, models.AuditOutcomeOK, digest, clientIP)
	return merchant, nil
}

// lookup resolves a cached digest to a fresh merchant row. A cached id
// whose merchant no longer carries this key hash is ignored, forcing the
// hash lookup.
func (s *service) lookup(ctx context.Context, digest string) *models.Merchant {
	var cachedID uint
	hit, err := s.cache.Get(ctx, cache.MerchantKey(digest), &cachedID)
	if err != nil || !hit {
		return nil
	}
	merchant, err := s.merchants.GetByID(ctx, cachedID)
	if err != nil || merchant.APIKeyHash != digest {
		return nil
	}
	return merchant
}
