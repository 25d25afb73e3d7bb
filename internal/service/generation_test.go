package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PranavPrasannaV/satapp/internal/config"
	"github.com/PranavPrasannaV/satapp/internal/domain"
	"github.com/PranavPrasannaV/satapp/internal/genpipe"
	"github.com/PranavPrasannaV/satapp/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestMain initializes the logger for all tests in this package
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "debug"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// stubGenerator streams nothing and answers every non-streaming call with
// the same batch of valid lines, so the orchestrator fills from bulk top-up.
type stubGenerator struct {
	batch string
}

func (g *stubGenerator) Stream(context.Context, string, domain.ChunkFunc) error { return nil }

func (g *stubGenerator) Generate(context.Context, string) (string, error) {
	return g.batch, nil
}

func validBatch(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		unit := domain.QuestionUnit{
			Question:           fmt.Sprintf("Stub question number %d?", i+1),
			Options:            []string{"w", "x", "y", "z"},
			CorrectAnswer:      "A",
			Explanations:       map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
			CorrectExplanation: "because",
		}
		raw, _ := json.Marshal(unit)
		b.Write(raw)
		b.WriteString("\n")
	}
	return b.String()
}

func serviceRequest(count int) domain.GenerationRequest {
	req := domain.GenerationRequest{Section: domain.SectionMath, Topic: "percentages", Count: count}
	req.Normalize()
	return req
}

func newTestService(gen domain.TextGenerator, batchCache domain.Cache) GenerationService {
	orch := genpipe.NewOrchestrator(gen, nil, logger.Get())
	return NewGenerationService(orch, batchCache, 10*time.Minute)
}

func TestGenerateCacheMissRunsPipelineAndStores(t *testing.T) {
	mockCache := new(MockCache)
	mockCache.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, 10*time.Minute).Return(nil)

	svc := newTestService(&stubGenerator{batch: validBatch(4)}, mockCache)

	units, err := svc.Generate(context.Background(), serviceRequest(4))
	require.NoError(t, err)
	assert.Len(t, units, 4)
	mockCache.AssertCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, 10*time.Minute)
}

func TestGenerateCacheHitSkipsPipeline(t *testing.T) {
	units := make([]domain.QuestionUnit, 2)
	for i := range units {
		units[i] = domain.QuestionUnit{
			Question:           fmt.Sprintf("Cached question %d?", i+1),
			Options:            []string{"1", "2", "3", "4"},
			CorrectAnswer:      "C",
			Explanations:       map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
			CorrectExplanation: "cached",
		}
	}
	payload, err := json.Marshal(units)
	require.NoError(t, err)

	mockCache := new(MockCache)
	mockCache.On("Get", mock.Anything, mock.Anything).Return(string(payload), nil)

	// A generator that panics would fail the test if the pipeline ran.
	svc := newTestService(&stubGenerator{batch: ""}, mockCache)

	got, err := svc.Generate(context.Background(), serviceRequest(2))
	require.NoError(t, err)
	assert.Equal(t, units, got)
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateStaleCacheEntryRegenerates(t *testing.T) {
	// Cached batch of the wrong size must be ignored.
	mockCache := new(MockCache)
	mockCache.On("Get", mock.Anything, mock.Anything).Return(`[]`, nil)
	mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(&stubGenerator{batch: validBatch(3)}, mockCache)

	units, err := svc.Generate(context.Background(), serviceRequest(3))
	require.NoError(t, err)
	assert.Len(t, units, 3)
}

func TestGenerateWithoutCache(t *testing.T) {
	svc := newTestService(&stubGenerator{batch: validBatch(5)}, nil)

	units, err := svc.Generate(context.Background(), serviceRequest(5))
	require.NoError(t, err)
	assert.Len(t, units, 5)
}

func TestStreamGenerateEmitsIntoSink(t *testing.T) {
	svc := newTestService(&stubGenerator{batch: validBatch(3)}, nil)

	var events []domain.StreamEvent
	sink := domain.SinkFunc(func(ev domain.StreamEvent) { events = append(events, ev) })

	err := svc.StreamGenerate(context.Background(), serviceRequest(3), sink)
	require.NoError(t, err)

	questions := 0
	for _, ev := range events {
		if ev.Type == domain.EventQuestion {
			questions++
		}
	}
	assert.Equal(t, 3, questions)
	assert.Equal(t, domain.EventDone, events[len(events)-1].Type)
}

func TestBatchCacheKeyIdentity(t *testing.T) {
	a := batchCacheKey(serviceRequest(5))
	b := batchCacheKey(serviceRequest(5))
	assert.Equal(t, a, b)

	other := serviceRequest(5)
	other.Topic = "geometry"
	assert.NotEqual(t, a, batchCacheKey(other))

	withMistakes := serviceRequest(5)
	withMistakes.RecentMistakes = []string{"sign error"}
	assert.NotEqual(t, a, batchCacheKey(withMistakes))

	assert.True(t, strings.HasPrefix(a, "satapp:generation:batch:"))
}
