// Package application provides the application layer services.
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/turtacn/mrsa/internal/config"
	"github.com/turtacn/mrsa/internal/domain/models"
	"github.com/turtacn/mrsa/internal/domain/repository"
	"github.com/turtacn/mrsa/internal/domain/service"
	"github.com/turtacn/mrsa/pkg/constants"
	"github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type nopRecorder struct{}

func (nopRecorder) RecordCipher(constants.CipherOp, error) {}

type nopAudit struct{}

func (nopAudit) LogEvent(context.Context, models.AuditEvent) error { return nil }

func (nopAudit) ListByKey(context.Context, string) ([]models.AuditEvent, error) { return nil, nil }

// KeyManagementService is the application-layer service that generates, stores,
// revokes and uses mini-RSA keys.
type KeyManagementService struct {
	generator service.KeyGenerator
	keyRepo   repository.KeyRepository
	metrics   service.CipherRecorder
	audit     service.AuditService
	keys      *cache.Cache
	loads     singleflight.Group
	cfg       config.KeyGenConfig
	logger    logger.Logger
}

// NewKeyManagementService creates a new instance of the KeyManagementService.
// A nil metrics recorder or audit service disables that concern.
func NewKeyManagementService(
	generator service.KeyGenerator,
	keyRepo repository.KeyRepository,
	metrics service.CipherRecorder,
	audit service.AuditService,
	cfg *config.Config,
	log logger.Logger,
) service.KeyManagementService {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if audit == nil {
		audit = nopAudit{}
	}
	return &KeyManagementService{
		generator: generator,
		keyRepo:   keyRepo,
		metrics:   metrics,
		audit:     audit,
		keys:      cache.New(cfg.Store.CacheTTL, cfg.Store.CacheCleanup),
		cfg:       cfg.KeyGen,
		logger:    log.WithFields(logger.Fields{"component": "KeyManagementService"}),
	}
}

// GenerateKey generates a key, bounded by the configured timeout, and stores it.
func (s *KeyManagementService) GenerateKey(ctx context.Context, label string) (*models.KeyInfo, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	key, err := s.generator.GenerateKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	rec := models.NewKeyRecord(uuid.NewString(), label, key)
	if err := s.keyRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	s.keys.SetDefault(rec.ID, rec)
	s.record(ctx, rec.ID, constants.AuditEventKeyGenerated, label)

	s.logger.Info(ctx, "Key generated", logger.Fields{"key_id": rec.ID, "label": label, "n": key.N})
	info := rec.Info()
	return &info, nil
}

// GenerateKeys generates count keys with at most BatchConcurrency in flight.
// If any generation fails, keys already stored by the batch are deleted.
func (s *KeyManagementService) GenerateKeys(ctx context.Context, label string, count int) ([]models.KeyInfo, error) {
	if count < 1 || count > s.cfg.MaxBatchSize {
		return nil, errors.ErrInvalidRequest(fmt.Sprintf("count must be between 1 and %d", s.cfg.MaxBatchSize))
	}

	infos := make([]*models.KeyInfo, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchConcurrency)
	for i := range infos {
		g.Go(func() error {
			info, err := s.GenerateKey(gctx, label)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.rollback(ctx, infos)
		return nil, err
	}

	out := make([]models.KeyInfo, count)
	for i, info := range infos {
		out[i] = *info
	}
	s.logger.Info(ctx, "Key batch generated", logger.Fields{"count": count, "label": label})
	return out, nil
}

func (s *KeyManagementService) rollback(ctx context.Context, infos []*models.KeyInfo) {
	// the batch context is already canceled here
	ctx = context.WithoutCancel(ctx)
	for _, info := range infos {
		if info == nil {
			continue
		}
		s.keys.Delete(info.ID)
		if err := s.keyRepo.Delete(ctx, info.ID); err != nil {
			s.logger.Error(ctx, "Failed to roll back batch key", err, logger.Fields{"key_id": info.ID})
			continue
		}
		s.record(ctx, info.ID, constants.AuditEventKeyRolledBack, "batch generation failed")
	}
}

// record writes an audit event. Audit failures are logged, never returned:
// the key operation has already been committed.
func (s *KeyManagementService) record(ctx context.Context, keyID string, eventType constants.AuditEventType, message string) {
	event := models.NewAuditEvent(keyID, eventType, message)
	if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
		event = event.WithRequestID(requestID)
	}
	if err := s.audit.LogEvent(ctx, event); err != nil {
		s.logger.Error(ctx, "Failed to record audit event", err, logger.Fields{"key_id": keyID, "event": eventType})
	}
}

// GetKey returns the public view of a stored key.
func (s *KeyManagementService) GetKey(ctx context.Context, id string) (*models.KeyInfo, error) {
	rec, err := s.loadKey(ctx, id)
	if err != nil {
		return nil, err
	}
	info := rec.Info()
	return &info, nil
}

// ListKeys returns every stored key.
func (s *KeyManagementService) ListKeys(ctx context.Context) ([]models.KeyInfo, error) {
	recs, err := s.keyRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]models.KeyInfo, 0, len(recs))
	for _, rec := range recs {
		infos = append(infos, rec.Info())
	}
	return infos, nil
}

// RevokeKey marks a key revoked. Revoking a revoked key is a no-op.
func (s *KeyManagementService) RevokeKey(ctx context.Context, id string) error {
	rec, err := s.loadKey(ctx, id)
	if err != nil {
		return err
	}
	if !rec.IsActive() {
		return nil
	}
	if err := s.keyRepo.UpdateStatus(ctx, id, constants.KeyStatusRevoked); err != nil {
		return err
	}

	// the revoked copy stays cached so a load still in flight cannot
	// put the active record back
	revoked := *rec
	revokedAt := time.Now().UTC()
	revoked.Status = constants.KeyStatusRevoked
	revoked.RevokedAt = &revokedAt
	s.keys.SetDefault(id, &revoked)
	s.loads.Forget(id)

	s.record(ctx, id, constants.AuditEventKeyRevoked, "")
	s.logger.Info(ctx, "Key revoked", logger.Fields{"key_id": id})
	return nil
}

// KeyEvents returns the audit trail of a stored key.
func (s *KeyManagementService) KeyEvents(ctx context.Context, id string) ([]models.AuditEvent, error) {
	if _, err := s.loadKey(ctx, id); err != nil {
		return nil, err
	}
	return s.audit.ListByKey(ctx, id)
}

// Encrypt computes m^e mod n with the stored key.
func (s *KeyManagementService) Encrypt(ctx context.Context, id string, m uint64) (uint64, error) {
	return s.cipher(ctx, constants.CipherOpEncrypt, id, m)
}

// Decrypt computes c^d mod n with the stored key.
func (s *KeyManagementService) Decrypt(ctx context.Context, id string, c uint64) (uint64, error) {
	return s.cipher(ctx, constants.CipherOpDecrypt, id, c)
}

func (s *KeyManagementService) cipher(ctx context.Context, op constants.CipherOp, id string, block uint64) (uint64, error) {
	out, err := s.apply(ctx, op, id, block)
	s.metrics.RecordCipher(op, err)
	if err != nil {
		s.logger.Debug(ctx, "Cipher operation rejected", logger.Fields{"key_id": id, "op": op, "error": err.Error()})
		return 0, err
	}
	return out, nil
}

func (s *KeyManagementService) apply(ctx context.Context, op constants.CipherOp, id string, block uint64) (uint64, error) {
	rec, err := s.loadKey(ctx, id)
	if err != nil {
		return 0, err
	}
	if !rec.IsActive() {
		return 0, errors.ErrKeyRevoked(id)
	}

	key, err := rec.Key()
	if err != nil {
		return 0, errors.WrapError(err, constants.ErrCodeServerError, "stored key is corrupt")
	}

	if op == constants.CipherOpEncrypt {
		return key.Encrypt(block)
	}
	return key.Decrypt(block)
}

// loadKey reads a key through the cache.
func (s *KeyManagementService) loadKey(ctx context.Context, id string) (*models.KeyRecord, error) {
	if cached, ok := s.keys.Get(id); ok {
		return cached.(*models.KeyRecord), nil
	}

	// concurrent misses for one ID share a single query, which must outlive
	// the caller that started it
	loadCtx := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(id, func() (interface{}, error) {
		rec, err := s.keyRepo.GetByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		if err := s.keys.Add(id, rec, cache.DefaultExpiration); err != nil {
			// a newer record (e.g. revoked) was cached meanwhile
			if cached, ok := s.keys.Get(id); ok {
				return cached, nil
			}
		}
		return rec, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.KeyRecord), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
