package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/docuparse/invoice-extract/internal/common"
)

type stubRunner struct {
	stdout []byte
	err    error
	calls  int
	args   []string
}

func (r *stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	r.calls++
	r.args = args
	return r.stdout, nil, r.err
}

func newTestSession(r Runner) *Session {
	s := NewSession(Config{Enhance: false}, nil)
	s.runner = r
	return s
}

func TestSessionRecognize(t *testing.T) {
	stub := &stubRunner{stdout: []byte("INVOICE\nTotal 88.00\n")}
	s := newTestSession(stub)
	defer s.Close()

	res, err := s.Recognize(context.Background(), "/tmp/invoice.png")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if res.Text != "INVOICE\nTotal 88.00\n" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Errorf("Confidence = %v, want in (0, 1]", res.Confidence)
	}
	if stub.calls != 1 {
		t.Errorf("runner calls = %d, want 1", stub.calls)
	}
	// image path, stdout sink, language and psm flags
	if len(stub.args) != 6 || stub.args[0] != "/tmp/invoice.png" || stub.args[1] != "stdout" {
		t.Errorf("engine args = %v", stub.args)
	}
}

func TestSessionSurvivesEngineFailure(t *testing.T) {
	stub := &stubRunner{err: errors.New("boom")}
	s := newTestSession(stub)
	defer s.Close()

	if _, err := s.Recognize(context.Background(), "a.png"); !errors.Is(err, common.ErrRecognition) {
		t.Fatalf("want ErrRecognition, got %v", err)
	}

	// A failed call must leave the session usable.
	stub.err = nil
	stub.stdout = []byte("recovered")
	res, err := s.Recognize(context.Background(), "b.png")
	if err != nil {
		t.Fatalf("second Recognize: %v", err)
	}
	if res.Text != "recovered" {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestSessionUseAfterClose(t *testing.T) {
	s := newTestSession(&stubRunner{stdout: []byte("x")})
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := s.Recognize(context.Background(), "a.png"); !errors.Is(err, common.ErrSessionClosed) {
		t.Fatalf("want ErrSessionClosed, got %v", err)
	}
}

func TestSessionHonorsContextCancellation(t *testing.T) {
	s := newTestSession(&stubRunner{stdout: []byte("x")})
	defer s.Close()

	// Hold the semaphore so the next caller has to wait on ctx.
	<-s.sem
	defer func() { s.sem <- struct{}{} }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Recognize(ctx, "a.png"); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestHeuristicConfidence(t *testing.T) {
	empty := heuristicConfidence("")
	rich := heuristicConfidence("Invoice 2024-03-15\nQty Rate Total\nWidget 2 $15.00 $30.00\n" +
		"Service Fee 50.00\nSubtotal 80.00\nTax 8.00\nTotal due $88.00 USD\n")
	if rich <= empty {
		t.Errorf("invoice-like text (%v) should score above empty text (%v)", rich, empty)
	}
	if rich > 1 {
		t.Errorf("confidence %v exceeds 1", rich)
	}
}
