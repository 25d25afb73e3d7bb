package handler

import (
	"bufio"
	"context"

	"github.com/PranavPrasannaV/satapp/internal/domain"
	"github.com/PranavPrasannaV/satapp/internal/dto"
	"github.com/PranavPrasannaV/satapp/internal/logger"
	"github.com/PranavPrasannaV/satapp/internal/middleware"
	"github.com/PranavPrasannaV/satapp/internal/service"
	"github.com/PranavPrasannaV/satapp/internal/transport"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// GenerationHandler handles question generation HTTP requests
type GenerationHandler struct {
	service    service.GenerationService
	batchCache domain.Cache // nil when redis is not configured; health only
}

// NewGenerationHandler creates a new GenerationHandler instance
func NewGenerationHandler(service service.GenerationService, batchCache domain.Cache) *GenerationHandler {
	return &GenerationHandler{service: service, batchCache: batchCache}
}

// StreamQuestions handles POST /api/questions/generate. The response is a
// chunked NDJSON stream: one event object per line, question and progress
// events as they happen, a done event last.
//
// The request context dies with this handler, but the generation session
// must outlive it inside the stream writer; upstream calls already issued
// are allowed to run to completion even if the caller disconnects, so the
// session runs on a background context and the sink simply goes quiet when
// writes start failing.
func (h *GenerationHandler) StreamQuestions(c *fiber.Ctx) error {
	req, ok := middleware.ValidatedGenerationRequest(c)
	if !ok {
		return domain.NewInternalError("generation request missing from context", nil)
	}

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		sink := transport.NewNDJSONSink(w, logger.Get())
		if err := h.service.StreamGenerate(context.Background(), req, sink); err != nil {
			// Headers are already on the wire; the failure to establish the
			// first upstream call becomes the stream's only line.
			sink.Emit(domain.ServerEvent(domain.StageError, "generation could not start"))
		}
	}))
	return nil
}

// GenerateQuestions handles POST /api/questions/generate/sync for callers
// that cannot read a stream. The identical state machine runs to completion
// and only the final batch is returned.
func (h *GenerationHandler) GenerateQuestions(c *fiber.Ctx) error {
	req, ok := middleware.ValidatedGenerationRequest(c)
	if !ok {
		return domain.NewInternalError("generation request missing from context", nil)
	}

	questions, err := h.service.Generate(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(dto.GenerateQuestionsResponse{Questions: questions})
}

// Health handles GET /api/health.
func (h *GenerationHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Redis: "disabled", LLM: "configured"}
	if h.batchCache != nil {
		resp.Redis = "ok"
		if err := h.batchCache.Ping(c.UserContext()); err != nil {
			resp.Redis = "unreachable"
		}
	}
	return c.JSON(resp)
}
