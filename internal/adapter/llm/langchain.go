package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PranavPrasannaV/satapp/internal/config"
	"github.com/PranavPrasannaV/satapp/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

// LangchainGenerator implements domain.TextGenerator over a langchaingo
// model. It carries the temperature and per-call timeout so the pipeline
// never has to know about provider options.
type LangchainGenerator struct {
	model       llms.Model
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// New builds the generator configured by cfg.LLM. Supported providers are
// "gemini" (the hosted upstream) and "ollama" (local development, the same
// setup the evaluator service uses).
func New(cfg config.LLMConfig, logger *zap.Logger) (*LangchainGenerator, error) {
	var (
		model llms.Model
		err   error
	)

	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, domain.NewConfigurationError("llm.gemini_api_key is required for the gemini provider")
		}
		model, err = googleai.New(context.Background(),
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case "ollama":
		httpClient := &http.Client{Timeout: cfg.RequestTimeout}
		model, err = ollama.New(
			ollama.WithServerURL(cfg.OllamaServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	default:
		return nil, domain.NewConfigurationError(fmt.Sprintf("unsupported llm provider: %s", cfg.Provider))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	logger.Info("LLM client initialized",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Float64("temperature", cfg.Temperature))

	return &LangchainGenerator{
		model:       model,
		temperature: cfg.Temperature,
		timeout:     cfg.RequestTimeout,
		logger:      logger,
	}, nil
}

// Generate implements domain.TextGenerator.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("llm call failed: %w", err)
	}
	return resp, nil
}

// Stream implements domain.TextGenerator. Each fragment the model produces
// is handed to onChunk before the next fragment is awaited.
func (g *LangchainGenerator) Stream(ctx context.Context, prompt string, onChunk domain.ChunkFunc) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.temperature),
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			return onChunk(string(chunk))
		}),
	)
	if err != nil {
		return fmt.Errorf("llm streaming call failed: %w", err)
	}
	return nil
}

var _ domain.TextGenerator = (*LangchainGenerator)(nil)
