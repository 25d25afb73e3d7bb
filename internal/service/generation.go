package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/PranavPrasannaV/satapp/internal/cache"
	"github.com/PranavPrasannaV/satapp/internal/domain"
	"github.com/PranavPrasannaV/satapp/internal/genpipe"
	"github.com/PranavPrasannaV/satapp/internal/logger"
	"github.com/PranavPrasannaV/satapp/internal/util"

	"go.uber.org/zap"
)

// GenerationService runs the question generation pipeline for callers.
type GenerationService interface {
	// StreamGenerate runs one generation session, emitting events into sink
	// as they are produced. The returned error is non-nil only when the very
	// first upstream call could not be established.
	StreamGenerate(ctx context.Context, req domain.GenerationRequest, sink domain.EventSink) error

	// Generate runs the identical state machine silently and returns only
	// the final batch of exactly req.Count units.
	Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.QuestionUnit, error)
}

type generationService struct {
	orchestrator *genpipe.Orchestrator
	batchCache   domain.Cache // nil when redis is not configured
	cacheTTL     time.Duration
}

// NewGenerationService creates the service. batchCache may be nil, which
// disables sync-batch reuse but leaves generation fully functional.
func NewGenerationService(orchestrator *genpipe.Orchestrator, batchCache domain.Cache, cacheTTL time.Duration) GenerationService {
	return &generationService{
		orchestrator: orchestrator,
		batchCache:   batchCache,
		cacheTTL:     cacheTTL,
	}
}

func (s *generationService) StreamGenerate(ctx context.Context, req domain.GenerationRequest, sink domain.EventSink) error {
	sessionID := util.NewULID()
	log := logger.Get().With(zap.String("session_id", sessionID))

	log.Info("Starting streaming generation session",
		zap.String("section", string(req.Section)),
		zap.String("topic", req.Topic),
		zap.Int("count", req.Count),
		zap.String("difficulty", string(req.Difficulty)))

	start := time.Now()
	units, err := s.orchestrator.Run(ctx, req, sink)
	if err != nil {
		log.Error("Generation session aborted", zap.Error(err))
		return err
	}

	log.Info("Generation session completed",
		zap.Int("delivered", len(units)),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *generationService) Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.QuestionUnit, error) {
	log := logger.Get()
	key := batchCacheKey(req)

	if s.batchCache != nil {
		cached, err := s.batchCache.Get(ctx, key)
		if err == nil {
			var units []domain.QuestionUnit
			if jsonErr := json.Unmarshal([]byte(cached), &units); jsonErr == nil && len(units) == req.Count {
				log.Info("Serving generation batch from cache", zap.String("key", key))
				return units, nil
			}
			// A stale or malformed entry falls through to regeneration.
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn("Batch cache read failed", zap.Error(err))
		}
	}

	units, err := s.orchestrator.Run(ctx, req, domain.DiscardSink)
	if err != nil {
		return nil, err
	}

	if s.batchCache != nil {
		payload, jsonErr := json.Marshal(units)
		if jsonErr == nil {
			if setErr := s.batchCache.Set(ctx, key, string(payload), s.cacheTTL); setErr != nil {
				log.Warn("Batch cache write failed", zap.Error(setErr))
			}
		}
	}
	return units, nil
}

// batchCacheKey hashes the free-text request parameters so identical sync
// requests within the TTL reuse a completed batch. Recent mistakes steer
// the prompt, so they are part of the identity.
func batchCacheKey(req domain.GenerationRequest) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(req.Topic))))
	for _, m := range req.RecentMistakes {
		h.Write([]byte{0})
		h.Write([]byte(m))
	}
	digest := hex.EncodeToString(h.Sum(nil))[:16]

	return cache.GenerateCacheKey("generation", "batch", digest,
		string(req.Section), string(req.Difficulty), strconv.Itoa(req.Count))
}
