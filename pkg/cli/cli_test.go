package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"mercator-hq/signup-pruner/pkg/config"
	"mercator-hq/signup-pruner/pkg/signup"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"config error", NewConfigError("age-threshold", "negative"), ExitConfig},
		{"wrapped validation", fmt.Errorf("load: %w", config.ValidationError{Errors: []config.FieldError{{Field: "x", Message: "y"}}}), ExitConfig},
		{"store unavailable", NewCommandError("prune", signup.NewUnavailableError("mysql", "fetch", errors.New("dial tcp"))), ExitUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("underlying error")
	err := NewCommandError("prune", underlying)

	if err.Error() != "command prune failed: underlying error" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should see through CommandError")
	}
}

type rendered struct{ n int }

func (r rendered) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "deleted %d\n", r.n)
	return err
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		data   any
		want   string
	}{
		{"text plain", FormatText, "hello", "hello\n"},
		{"text renderer", FormatText, rendered{n: 3}, "deleted 3\n"},
		{"default is text", "", 42, "42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			if err != nil {
				t.Fatalf("NewFormatter() error = %v", err)
			}
			var buf bytes.Buffer
			if err := f.FormatTo(&buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("FormatTo() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	f, err := NewFormatter("JSON")
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	var buf bytes.Buffer
	if err := f.FormatTo(&buf, map[string]int{"deleted": 2}); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var got map[string]int
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["deleted"] != 2 {
		t.Errorf("got %v", got)
	}
}

func TestNewFormatter_Unknown(t *testing.T) {
	_, err := NewFormatter("csv")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestSignalContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled too early")
	default:
	}

	cancel()
	<-ctx.Done()
}
