package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/cristianoliveira/casewatch/internal/logging"
)

// temporary is implemented by errors that may succeed on retry.
type temporary interface {
	Temporary() bool
}

// Policy is the single place that decides whether a failure is shown.
//
// Background reads (list fetches and notification polls) are logged and
// never shown; the view keeps its previous data. Every failed mutation is
// logged and shown through the handler.
type Policy struct {
	handler ErrorHandler
	logger  logging.Logger
}

// NewPolicy creates a policy surfacing through handler.
func NewPolicy(handler ErrorHandler, logger logging.Logger) *Policy {
	if handler == nil {
		handler = Discard
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Policy{handler: handler, logger: logger}
}

// Fetch records a failed background read. It reports whether err was a
// real failure; cancellations are ignored.
func (p *Policy) Fetch(err error) bool {
	if err == nil || isCancellation(err) {
		return false
	}
	p.logger.Warn("background fetch failed", "error", err, "temporary", IsTemporary(err))
	return true
}

// Mutation records a failed user action and shows it. It returns err so
// callers can keep propagating it.
func (p *Policy) Mutation(op string, err error) error {
	if err == nil {
		return nil
	}
	if isCancellation(err) {
		p.logger.Debug("mutation cancelled", "op", op)
		return err
	}
	p.logger.Error("mutation failed", "op", op, "error", err)
	p.handler.Error(Describe(op, err))
	return err
}

// Success reports a completed user action.
func (p *Policy) Success(msg string) {
	p.handler.Success(msg)
}

// Describe renders a failure for display.
func Describe(op string, err error) string {
	msg := fmt.Sprintf("%s failed: %v", op, err)
	if IsTemporary(err) {
		msg += " (try again later)"
	}
	return msg
}

// IsTemporary reports whether any error in the chain is temporary.
func IsTemporary(err error) bool {
	var t temporary
	return stderrors.As(err, &t) && t.Temporary()
}

func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled)
}
