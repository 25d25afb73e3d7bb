package genpipe

import (
	"context"
	"fmt"

	"github.com/PranavPrasannaV/satapp/internal/domain"

	"go.uber.org/zap"
)

// Orchestrator drives one generation run through the recovery ladder:
// primary stream, bounded bulk top-up rounds, single-item recovery with one
// variant retry per slot, and a synthetic filler as the terminal fallback.
// It never returns fewer units than the request asked for.
type Orchestrator struct {
	gen     domain.TextGenerator
	prompts *PromptBuilder
	logger  *zap.Logger
}

// NewOrchestrator creates an Orchestrator. A nil prompts uses the default
// templates; a nil logger disables logging.
func NewOrchestrator(gen domain.TextGenerator, prompts *PromptBuilder, logger *zap.Logger) *Orchestrator {
	if prompts == nil {
		prompts = &PromptBuilder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{gen: gen, prompts: prompts, logger: logger}
}

// session is the ephemeral per-request state. It is owned exclusively by one
// Run call; nothing is shared across requests.
type session struct {
	target   int
	accepted []domain.QuestionUnit
	dedup    *Deduplicator
	sink     domain.EventSink
	logger   *zap.Logger
}

func (s *session) count() int     { return len(s.accepted) }
func (s *session) remaining() int { return s.target - len(s.accepted) }
func (s *session) full() bool     { return len(s.accepted) >= s.target }

// accept commits a validated, sanitized, non-duplicate unit and emits the
// question event followed by its progress event.
func (s *session) accept(u *domain.QuestionUnit) {
	s.dedup.Mark(u.Question)
	s.accepted = append(s.accepted, *u)
	pos := len(s.accepted)
	s.sink.Emit(domain.QuestionEvent(pos, u))
	s.sink.Emit(domain.ProgressEvent(pos, s.target))
}

// consume runs one candidate line through the validator, sanitizer and
// deduplicator. Returns true when the line became an accepted unit. Parse
// and schema failures are diagnostics, never fatal.
func (s *session) consume(line string) bool {
	if s.full() {
		return false
	}

	unit, err := ParseCandidate(line)
	if err != nil {
		s.logger.Debug("Rejected candidate line", zap.Error(err), zap.Int("line_length", len(line)))
		s.sink.Emit(domain.ServerEvent(domain.StageInvalid, ""))
		return false
	}

	Sanitize(unit)

	if s.dedup.Seen(unit.Question) {
		s.logger.Debug("Duplicate question rejected", zap.String("fingerprint", Fingerprint(unit.Question)))
		s.sink.Emit(domain.ServerEvent(domain.StageDuplicate, ""))
		return false
	}

	s.accept(unit)
	return true
}

// consumeAll feeds a whole non-streaming response through the candidate
// chain, stopping once the target is reached.
func (s *session) consumeAll(text string) {
	framer := NewLineFramer()
	for _, line := range framer.Feed(text) {
		if s.full() {
			return
		}
		s.consume(line)
	}
	for _, line := range framer.Flush() {
		if s.full() {
			return
		}
		s.consume(line)
	}
}

// Run executes the full state machine for one request and returns exactly
// req.Count well-formed units. The request must already be normalized. The
// only error Run can return is a failure to establish the very first model
// call; every later upstream failure is recovered internally.
func (o *Orchestrator) Run(ctx context.Context, req domain.GenerationRequest, sink domain.EventSink) ([]domain.QuestionUnit, error) {
	sess := &session{
		target: req.Count,
		dedup:  NewDeduplicator(),
		sink:   sink,
		logger: o.logger,
	}

	sink.Emit(domain.ServerEvent(domain.StageReceived, fmt.Sprintf("section=%s topic=%s count=%d", req.Section, req.Topic, req.Count)))

	if err := o.primaryStream(ctx, req, sess); err != nil {
		return nil, err
	}
	o.bulkTopup(ctx, req, sess)
	o.singleRecovery(ctx, req, sess)

	sink.Emit(domain.DoneEvent())
	return sess.accepted, nil
}

// primaryStream consumes the model's streaming channel, framing and
// validating candidates as each chunk arrives. An error with zero chunks
// received means the upstream could not be reached at all, which aborts the
// request; anything later degrades to the fallback tiers.
func (o *Orchestrator) primaryStream(ctx context.Context, req domain.GenerationRequest, sess *session) error {
	prompt := o.prompts.Primary(req)
	sess.sink.Emit(domain.ServerEvent(domain.StagePromptBuilt, ""))
	sess.sink.Emit(domain.ServerEvent(domain.StageStreamOpen, ""))

	framer := NewLineFramer()
	chunks := 0
	err := o.gen.Stream(ctx, prompt, func(chunk string) error {
		chunks++
		sess.sink.Emit(domain.ServerEvent(domain.StageChunk, ""))
		for _, line := range framer.Feed(chunk) {
			sess.consume(line)
		}
		return nil
	})

	if err != nil && chunks == 0 && sess.count() == 0 {
		o.logger.Error("Primary model call could not be established", zap.Error(err))
		return domain.NewUpstreamUnavailableError(err)
	}
	if err != nil {
		o.logger.Warn("Primary stream failed mid-flight, escalating", zap.Error(err), zap.Int("accepted", sess.count()))
		sess.sink.Emit(domain.ServerEvent(domain.StageError, "primary stream interrupted"))
	}

	for _, line := range framer.Flush() {
		sess.consume(line)
	}

	o.logger.Info("Primary stream finished",
		zap.Int("accepted", sess.count()),
		zap.Int("target", sess.target),
		zap.Int("chunks", chunks))
	return nil
}

// bulkTopup asks for the remaining shortfall in bounded, escalatingly terse
// rounds. Each round parses the full response through the same candidate
// chain as the primary stream.
func (o *Orchestrator) bulkTopup(ctx context.Context, req domain.GenerationRequest, sess *session) {
	for round := 0; round < o.prompts.BulkRounds() && !sess.full(); round++ {
		shortfall := sess.remaining()
		sess.sink.Emit(domain.ServerEvent(domain.StageBulkTopup, fmt.Sprintf("round=%d shortfall=%d", round+1, shortfall)))

		text, err := o.gen.Generate(ctx, o.prompts.Bulk(req, round, shortfall))
		if err != nil {
			o.logger.Warn("Bulk top-up round failed", zap.Int("round", round+1), zap.Error(err))
			sess.sink.Emit(domain.ServerEvent(domain.StageError, "bulk top-up call failed"))
			continue
		}
		sess.consumeAll(text)

		o.logger.Info("Bulk top-up round finished",
			zap.Int("round", round+1),
			zap.Int("accepted", sess.count()),
			zap.Int("target", sess.target))
	}
}

// singleRecovery fills each remaining slot one at a time: one-shot
// generation, one variant-worded retry, then a synthetic filler so the
// count invariant cannot break.
func (o *Orchestrator) singleRecovery(ctx context.Context, req domain.GenerationRequest, sess *session) {
	for !sess.full() {
		slot := sess.count() + 1
		sess.sink.Emit(domain.ServerEvent(domain.StageSingleRecovery, fmt.Sprintf("slot=%d", slot)))

		if o.trySingle(ctx, sess, o.prompts.Single(req)) {
			continue
		}
		if o.trySingle(ctx, sess, o.prompts.SingleVariant(req)) {
			continue
		}

		o.logger.Warn("Model-backed attempts exhausted for slot, synthesizing filler", zap.Int("slot", slot))
		sess.sink.Emit(domain.ServerEvent(domain.StageFiller, fmt.Sprintf("slot=%d", slot)))
		sess.accept(syntheticFiller(req, slot))
	}
}

// trySingle issues one non-streaming call expected to yield a single unit.
func (o *Orchestrator) trySingle(ctx context.Context, sess *session, prompt string) bool {
	text, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		o.logger.Warn("Single-item call failed", zap.Error(err))
		sess.sink.Emit(domain.ServerEvent(domain.StageError, "single-item call failed"))
		return false
	}
	before := sess.count()
	sess.consumeAll(text)
	return sess.count() > before
}

// syntheticFiller builds the fixed, schema-valid unit used only when every
// model-backed attempt for a slot is exhausted. The slot number keeps its
// fingerprint distinct from other fillers in the same session.
func syntheticFiller(req domain.GenerationRequest, slot int) *domain.QuestionUnit {
	return &domain.QuestionUnit{
		Question: fmt.Sprintf("(Backup question %d) The generator could not produce a unique question for \"%s\". Which review step is most effective before retrying?", slot, req.Topic),
		Options: []string{
			"Re-read the core concept for this topic",
			"Work through one solved example",
			"Revisit your most recent mistakes",
			"All of the above",
		},
		CorrectAnswer: "D",
		Explanations: map[string]string{
			"A": "Re-reading helps, but on its own it is the weakest form of review.",
			"B": "Worked examples help, but combine them with the other steps.",
			"C": "Mistake review helps, but combine it with the other steps.",
			"D": "Combining all three review steps is the most effective preparation.",
		},
		CorrectExplanation: "This is a backup question. Each listed step reinforces the others, so doing all three is the best answer. Generate a new set for fresh material.",
	}
}
