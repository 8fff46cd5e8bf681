// Package engine orchestrates the generation pipeline: resolve the spec,
// build the questionnaire and prompt, invoke the model, validate the
// output and retry with targeted feedback until the document is accepted
// or the attempt budget is exhausted.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"primusgen/internal/llm"
	"primusgen/internal/logging"
	"primusgen/internal/mapper"
	"primusgen/internal/microrule"
	"primusgen/internal/prompt"
	"primusgen/internal/question"
	"primusgen/internal/spec"
	"primusgen/internal/validate"
)

// ErrMaxRetriesExceeded is returned when validation fails on every
// attempt. The wrapped message enumerates exactly what was still missing.
var ErrMaxRetriesExceeded = errors.New("generation failed after all attempts")

// MaxAttempts is the total attempt budget per generation call.
const MaxAttempts = 3

// Request is one document generation call.
type Request struct {
	ModuleNumber  string
	DocumentName  string
	SubModuleName string
	Answers       question.Answers
}

// Engine wires the pipeline components together. All fields are read-only
// after construction; the engine itself is request-scoped and sequential.
type Engine struct {
	Loader  *spec.Loader
	Rules   *microrule.Store
	Vocab   *validate.Vocabulary
	Client  llm.Client
	Builder *prompt.Builder
}

// New creates an Engine with the default prompt builder.
func New(loader *spec.Loader, rules *microrule.Store, vocab *validate.Vocabulary, client llm.Client) *Engine {
	return &Engine{
		Loader:  loader,
		Rules:   rules,
		Vocab:   vocab,
		Client:  client,
		Builder: prompt.NewBuilder(),
	}
}

// Generate runs the full pipeline and returns the accepted document text.
func (e *Engine) Generate(ctx context.Context, req Request) (string, error) {
	requestID := uuid.NewString()
	log := logging.Get(logging.CategoryGeneration)
	log.Info("[req:%s] generate: module=%s doc=%q submodule=%q",
		requestID, req.ModuleNumber, req.DocumentName, req.SubModuleName)

	mod, err := e.Loader.LoadModuleSpec(req.ModuleNumber)
	if err != nil {
		// Recoverable: fall back to the generic structure template.
		logging.GenerationWarn("[req:%s] module spec unavailable, using generic structure: %v", requestID, err)
		mod = nil
	}
	sub := e.Loader.FindSubmoduleSpecByName(req.ModuleNumber, req.DocumentName, req.SubModuleName)
	checklist, err := e.Loader.LoadChecklist(req.ModuleNumber)
	if err != nil {
		logging.GenerationWarn("[req:%s] checklist unavailable: %v", requestID, err)
	}

	questions := question.Generate(sub, checklist)
	mappings := mapper.MapAnswersToRequirements(
		e.Loader, req.Answers, questions, req.ModuleNumber, req.DocumentName, req.SubModuleName)

	basePrompt, err := e.Builder.Build(prompt.BuildRequest{
		Module:       mod,
		Submodule:    sub,
		DocumentName: req.DocumentName,
		Questions:    questions,
		Answers:      req.Answers,
		Mappings:     mappings,
	})
	if err != nil {
		return "", err
	}

	budget := prompt.TokenBudget(len(mappings))
	groups := microrule.DetectRelevantGroups(microrule.Context{
		ModuleNumber:  req.ModuleNumber,
		SubmoduleName: req.SubModuleName,
		DocumentName:  req.DocumentName,
	})

	currentPrompt := basePrompt
	var lastFailure string
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		log.Info("[req:%s] attempt %d/%d (budget %d tokens)", requestID, attempt, MaxAttempts, budget)

		output, err := e.Client.Complete(ctx, llm.Request{Prompt: currentPrompt, MaxOutputTokens: budget})
		if err != nil {
			return "", fmt.Errorf("model invocation failed on attempt %d: %w", attempt, err)
		}

		result := e.validateAttempt(output, req.Answers, mappings, groups)
		switch result.Outcome {
		case OutcomeAccept:
			log.Info("[req:%s] accepted on attempt %d", requestID, attempt)
			return result.Document, nil
		case OutcomeRetry:
			logging.GenerationWarn("[req:%s] attempt %d rejected: %s", requestID, attempt, result.Reason)
			lastFailure = result.Reason
			currentPrompt = NextPrompt(basePrompt, result.Feedback)
		case OutcomeFail:
			return "", fmt.Errorf("generation aborted: %s", result.Reason)
		}
	}

	return "", fmt.Errorf("%w (%d attempts): %s", ErrMaxRetriesExceeded, MaxAttempts, lastFailure)
}

// validateAttempt runs the per-attempt validation pipeline and classifies
// the outcome.
func (e *Engine) validateAttempt(
	output string,
	answers question.Answers,
	mappings []mapper.Mapping,
	groups []microrule.Category,
) AttemptResult {
	// 1. Forbidden-pattern scan aborts before any cleanup so the snippet
	// surfaced to the next prompt is the model's own text.
	scan := e.Vocab.CheckForbiddenPatterns(output)
	if scan.HasForbiddenPatterns {
		return AttemptResult{
			Outcome:  OutcomeRetry,
			Reason:   describeForbidden(scan),
			Feedback: forbiddenFeedback(scan),
		}
	}

	// 2. Sanitization is always safe and never causes rejection.
	doc := validate.Sanitize(output)

	// 3. Signature cutoff: silent auto-correction, never a user error.
	doc, _ = e.Vocab.CutoffAfterSignatures(doc)

	// 4. Micro-rule linting with auto-insertion.
	if e.Rules != nil && len(groups) > 0 {
		report, err := e.Rules.Lint(doc, groups)
		if err != nil {
			logging.ValidationWarn("micro-rule lint skipped: %v", err)
		} else {
			doc = report.Document
		}
	}

	// 5. Answer and requirement-header presence.
	if result := validate.ValidateAnswersPresent(doc, answers, mappings); !result.Valid {
		return AttemptResult{
			Outcome:  OutcomeRetry,
			Reason:   describeErrors(result.Errors),
			Feedback: missingAnswerFeedback(result.Errors),
		}
	}

	// 6. Structural validation.
	if result := e.Vocab.ValidateStructure(doc); !result.Valid {
		return AttemptResult{
			Outcome:  OutcomeRetry,
			Reason:   describeErrors(result.Errors),
			Feedback: structureFeedback(result.Errors, e.Vocab.SectionCount),
		}
	}

	// 7. Soft quality scoring: logged only, never gates the retry.
	e.Vocab.ScoreQuality(doc)

	return AttemptResult{Outcome: OutcomeAccept, Document: doc}
}

func describeForbidden(scan *validate.ForbiddenScan) string {
	var parts []string
	for _, m := range scan.CriticalMatches() {
		parts = append(parts, fmt.Sprintf("%s (line %d)", m.Description, m.LineNumber))
	}
	return "forbidden patterns: " + strings.Join(parts, "; ")
}

func describeErrors(errs []validate.Error) string {
	var parts []string
	for _, e := range errs {
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}
