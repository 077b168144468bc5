package answer

import (
	"context"
	"errors"
	"io"

	"github.com/gurjar1/gpt-researcher/internal/dispatch"
	"github.com/gurjar1/gpt-researcher/pkg/llm"
	"github.com/gurjar1/gpt-researcher/pkg/logging"
	"github.com/gurjar1/gpt-researcher/pkg/search"
)

// ErrNoResults signals that no backend produced any sources for the query.
var ErrNoResults = errors.New("no search results available")

// Message is one turn of prior conversation supplied with a request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the caller's search-and-answer request.
type Request struct {
	Query               string    `json:"query"`
	NumResults          int       `json:"num_results"`
	Model               string    `json:"model"`
	FocusMode           string    `json:"focus_mode"`
	ConversationHistory []Message `json:"conversation_history"`
}

// Emitter receives the ordered event sequence of one streaming answer.
type Emitter interface {
	SendSources(query, focusMode string, sources []search.Result) error
	SendStart() error
	SendChunk(content string) error
	SendDone() error
}

// Pipeline turns a request into sources plus a streamed, cited answer.
type Pipeline struct {
	dispatcher         *dispatch.Dispatcher
	generator          llm.Provider
	logger             logging.Logger
	historyMaxMessages int
	historyMaxChars    int
}

func NewPipeline(dispatcher *dispatch.Dispatcher, generator llm.Provider, logger logging.Logger, historyMaxMessages, historyMaxChars int) *Pipeline {
	return &Pipeline{
		dispatcher:         dispatcher,
		generator:          generator,
		logger:             logger,
		historyMaxMessages: historyMaxMessages,
		historyMaxChars:    historyMaxChars,
	}
}

// Run emits sources, then start, then answer chunks in generator order, then
// done. Cancellation is checked before sources, before start, and before
// every chunk; once observed, no further events go out and ctx.Err comes
// back to the caller. A generator fault after streaming began is reported
// inline as a final error chunk so the client still receives a terminal
// event.
func (p *Pipeline) Run(ctx context.Context, req Request, emit Emitter) error {
	focus := req.FocusMode
	if focus == "" {
		focus = search.FocusQuick
	}

	outcome, err := p.dispatcher.Search(ctx, req.Query, req.NumResults, focus)
	if err != nil {
		pipelineTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return err
	}
	if len(outcome.Results) == 0 {
		pipelineTotal.WithLabelValues("no_results").Inc()
		return ErrNoResults
	}

	if err := ctx.Err(); err != nil {
		pipelineTotal.WithLabelValues("cancelled").Inc()
		return err
	}
	if err := emit.SendSources(req.Query, focus, outcome.Results); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		pipelineTotal.WithLabelValues("cancelled").Inc()
		return err
	}
	if err := emit.SendStart(); err != nil {
		return err
	}

	prompt := buildPrompt(req.Query, outcome.Results, req.ConversationHistory, p.historyMaxMessages, p.historyMaxChars)
	generator := p.generator
	if req.Model != "" {
		if selector, ok := generator.(llm.ModelSelector); ok {
			generator = selector.WithModel(req.Model)
		}
	}

	stream, err := generator.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		if ctx.Err() != nil {
			pipelineTotal.WithLabelValues("cancelled").Inc()
			return ctx.Err()
		}
		p.logger.WithError(err).Error("Answer generation failed to start")
		_ = emit.SendChunk("\n\nError: " + err.Error())
		pipelineTotal.WithLabelValues("generator_error").Inc()
		return emit.SendDone()
	}
	defer stream.Close()

	for {
		if err := ctx.Err(); err != nil {
			pipelineTotal.WithLabelValues("cancelled").Inc()
			return err
		}
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Interruption of the generation call itself is a
			// cancellation, not a generator fault.
			if ctx.Err() != nil {
				pipelineTotal.WithLabelValues("cancelled").Inc()
				return ctx.Err()
			}
			p.logger.WithError(err).Error("Answer generation failed mid-stream")
			_ = emit.SendChunk("\n\nError: " + err.Error())
			pipelineTotal.WithLabelValues("generator_error").Inc()
			return emit.SendDone()
		}
		if chunk.Content == "" {
			continue
		}
		if err := emit.SendChunk(chunk.Content); err != nil {
			return err
		}
		answerChunksTotal.Inc()
	}

	pipelineTotal.WithLabelValues("done").Inc()
	return emit.SendDone()
}

func outcomeLabel(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	return "dispatch_error"
}
