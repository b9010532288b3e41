// Package reason defines the boundary to the handwriting reasoning service.
//
// The engine never talks to a network itself. It hands a canvas snapshot and
// layout metadata to a Service implementation and gets back the recognized
// handwriting plus the text to write in response. How the reply is produced
// (remote model, local model, canned script) is the implementation's concern.
//
// # Usage
//
//	svc := reason.NewScripted(
//	    reason.Reply{RecognizedText: "2+2", ResponseText: "4"},
//	)
//	reply, err := svc.Respond(ctx, reason.Request{Image: png, Metadata: meta})
package reason

import (
	"context"
	"strings"
	"sync"

	"github.com/paperjot/inkwell/pkg/canvas"
	"github.com/paperjot/inkwell/pkg/errors"
)

// Request carries everything a reasoning service needs to produce a reply.
type Request struct {
	// Image is a PNG-encoded snapshot of the canvas.
	Image []byte `json:"image"`

	// Metadata describes the canvas layout at snapshot time.
	Metadata canvas.Metadata `json:"metadata"`
}

// Reply is the service's answer to a canvas snapshot.
type Reply struct {
	// RecognizedText is the service's reading of the user's handwriting.
	RecognizedText string `json:"recognized_text"`

	// ResponseText is the text the engine should write onto the canvas.
	ResponseText string `json:"response_text"`
}

// Service produces a written reply for a canvas snapshot.
type Service interface {
	Respond(ctx context.Context, req Request) (Reply, error)
}

// ValidateReply checks that a service reply is usable by the pipeline.
// An empty response text means the service had nothing to write, which is
// a malformed reply rather than a valid no-op.
func ValidateReply(r Reply) error {
	if strings.TrimSpace(r.ResponseText) == "" {
		return errors.New(errors.ErrCodeServiceBadReply, "reasoning service returned empty response text")
	}
	return nil
}

// =============================================================================
// Scripted Service
// =============================================================================

// Scripted is a Service that serves a fixed sequence of replies. It is used
// by the assist demo and by tests that exercise the full pipeline without a
// real reasoning backend.
type Scripted struct {
	mu       sync.Mutex
	queue    []Reply
	calls    int
	fallback Reply
}

// NewScripted creates a Scripted service serving the given replies in order.
// Once the queue is exhausted, requests get the fallback reply.
func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{
		queue:    replies,
		fallback: Reply{RecognizedText: "?", ResponseText: "I could not read that."},
	}
}

// Enqueue appends replies to the end of the queue.
func (s *Scripted) Enqueue(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, replies...)
}

// SetFallback replaces the reply used once the queue is exhausted.
func (s *Scripted) SetFallback(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = r
}

// Calls reports how many requests the service has answered.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Respond implements Service. Scripted never inspects the image; callers
// drive the conversation by enqueueing replies in order.
func (s *Scripted) Respond(ctx context.Context, req Request) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, errors.Wrap(errors.ErrCodeService, err, "reasoning request cancelled")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	if len(s.queue) > 0 {
		r := s.queue[0]
		s.queue = s.queue[1:]
		return r, nil
	}
	return s.fallback, nil
}
