package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var ErrEmptyCompletion = errors.New("empty completion")

// Params are the model settings of one generation call.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Request carries everything either generator variant may need: the
// assembled conversation for remote models and the literal prompt plus tags
// for the local fallback.
type Request struct {
	Messages []ChatMessage
	Params   Params

	Prompt  string
	Mode    Mode
	Emotion string
	Board   string
	Grade   string
}

// Generator produces assistant text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Reply is the outcome of Responder.Respond.
type Reply struct {
	Text     string
	Fallback bool
}

// Responder tries the remote generator, if one is configured, and falls back
// to the local heuristic on any failure. It never fails.
type Responder struct {
	remote   Generator
	fallback FallbackGenerator
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResponder builds a Responder. remote may be nil when no credential is
// configured; timeout <= 0 leaves the remote call bounded only by ctx.
func NewResponder(remote Generator, timeout time.Duration, logger *zap.Logger) *Responder {
	return &Responder{
		remote:  remote,
		timeout: timeout,
		logger:  logger,
	}
}

func (r *Responder) HasRemote() bool {
	return r.remote != nil
}

func (r *Responder) Respond(ctx context.Context, req Request) Reply {
	if r.remote != nil {
		text, err := r.callRemote(ctx, req)
		if err == nil && text != "" {
			return Reply{Text: text}
		}
		if err == nil {
			err = ErrEmptyCompletion
		}
		r.logger.Warn("Remote generation failed, using fallback",
			zap.String("mode", req.Mode.String()),
			zap.String("model", req.Params.Model),
			zap.Error(err))
	}
	return Reply{Text: r.fallback.Compose(req), Fallback: true}
}

func (r *Responder) callRemote(ctx context.Context, req Request) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.remote.Generate(ctx, req)
}
