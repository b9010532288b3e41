package reason

import (
	"context"
	"testing"

	"github.com/paperjot/inkwell/pkg/errors"
)

func TestScriptedServesQueueInOrder(t *testing.T) {
	svc := NewScripted(
		Reply{RecognizedText: "2+2", ResponseText: "4"},
		Reply{RecognizedText: "hello", ResponseText: "hi there"},
	)

	ctx := context.Background()
	first, err := svc.Respond(ctx, Request{})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if first.ResponseText != "4" {
		t.Errorf("first reply = %q, want %q", first.ResponseText, "4")
	}

	second, err := svc.Respond(ctx, Request{})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if second.ResponseText != "hi there" {
		t.Errorf("second reply = %q, want %q", second.ResponseText, "hi there")
	}

	if svc.Calls() != 2 {
		t.Errorf("Calls() = %d, want 2", svc.Calls())
	}
}

func TestScriptedFallsBackWhenQueueExhausted(t *testing.T) {
	svc := NewScripted()
	svc.SetFallback(Reply{RecognizedText: "?", ResponseText: "try again"})

	reply, err := svc.Respond(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Respond() error = %v", err)
	}
	if reply.ResponseText != "try again" {
		t.Errorf("fallback reply = %q, want %q", reply.ResponseText, "try again")
	}
}

func TestScriptedEnqueueAppends(t *testing.T) {
	svc := NewScripted(Reply{ResponseText: "first"})
	svc.Enqueue(Reply{ResponseText: "second"})

	ctx := context.Background()
	if r, _ := svc.Respond(ctx, Request{}); r.ResponseText != "first" {
		t.Errorf("got %q, want %q", r.ResponseText, "first")
	}
	if r, _ := svc.Respond(ctx, Request{}); r.ResponseText != "second" {
		t.Errorf("got %q, want %q", r.ResponseText, "second")
	}
}

func TestScriptedRespectsCancellation(t *testing.T) {
	svc := NewScripted(Reply{ResponseText: "never served"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Respond(ctx, Request{})
	if err == nil {
		t.Fatal("Respond() with cancelled context should fail")
	}
	if errors.GetCode(err) != errors.ErrCodeService {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeService)
	}
	if svc.Calls() != 0 {
		t.Errorf("Calls() = %d, want 0 after cancellation", svc.Calls())
	}
}

func TestValidateReply(t *testing.T) {
	if err := ValidateReply(Reply{RecognizedText: "2+2", ResponseText: "4"}); err != nil {
		t.Errorf("valid reply rejected: %v", err)
	}

	err := ValidateReply(Reply{RecognizedText: "2+2", ResponseText: "   "})
	if err == nil {
		t.Fatal("blank response text should be rejected")
	}
	if errors.GetCode(err) != errors.ErrCodeServiceBadReply {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeServiceBadReply)
	}
}
