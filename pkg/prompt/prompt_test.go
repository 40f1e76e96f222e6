package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
)

func TestTranslateSurveyErr(t *testing.T) {
	if err := translateSurveyErr(terminal.InterruptErr); !errors.Is(err, ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted, got %v", err)
	}
	wrapped := fmt.Errorf("ask: %w", terminal.InterruptErr)
	if err := translateSurveyErr(wrapped); !errors.Is(err, ErrAborted) {
		t.Fatalf("wrapped interrupt should map to ErrAborted, got %v", err)
	}
	other := errors.New("eof")
	if err := translateSurveyErr(other); err != other {
		t.Fatalf("other errors pass through, got %v", err)
	}
}

func TestAutoDriver(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	d := AutoDriver{Assume: true, Out: &buf}

	if ok, err := d.Confirm(ctx, ConfirmConfig{Message: "submit?"}); err != nil || !ok {
		t.Fatalf("Confirm = %v, %v", ok, err)
	}
	if got, err := d.Input(ctx, InputConfig{Default: "12345678"}); err != nil || got != "12345678" {
		t.Fatalf("Input = %q, %v", got, err)
	}
	if _, err := d.Input(ctx, InputConfig{Validator: func(s string) error {
		if s == "" {
			return errors.New("required")
		}
		return nil
	}}); err == nil {
		t.Fatal("validator should reject the empty default")
	}
	if idx, _ := d.Select(ctx, SelectConfig{Options: []string{"a", "b"}, DefaultIndex: 1}); idx != 1 {
		t.Fatalf("Select = %d", idx)
	}
	if idx, _ := d.Select(ctx, SelectConfig{Options: nil}); idx != -1 {
		t.Fatalf("Select on empty options = %d", idx)
	}
	if err := d.Info(ctx, "hello"); err != nil || buf.String() != "hello\n" {
		t.Fatalf("Info wrote %q, %v", buf.String(), err)
	}
}

func TestConfirmOrDecline(t *testing.T) {
	ctx := context.Background()
	if err := ConfirmOrDecline(ctx, AutoDriver{Assume: false}, ConfirmConfig{}); !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if err := ConfirmOrDecline(ctx, AutoDriver{Assume: true}, ConfirmConfig{}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := ConfirmOrDecline(cancelled, AutoDriver{Assume: true}, ConfirmConfig{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSurveyDriver_CanceledContextSkipsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewSurveyDriver(io.Discard)

	if _, err := d.Input(ctx, InputConfig{Message: "invoice number"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Input: expected context.Canceled, got %v", err)
	}
	if _, err := d.Confirm(ctx, ConfirmConfig{Message: "submit?"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm: expected context.Canceled, got %v", err)
	}
	if idx, err := d.Select(ctx, SelectConfig{Message: "pick", Options: []string{"a"}}); !errors.Is(err, context.Canceled) || idx != -1 {
		t.Fatalf("Select = %d, %v; want -1, context.Canceled", idx, err)
	}
	if err := translateSurveyErr(nil); err != nil {
		t.Fatalf("nil stays nil, got %v", err)
	}
}
