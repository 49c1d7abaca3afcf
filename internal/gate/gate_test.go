package gate

import (
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/muurk/promodeck/internal/logging"
)

// TestHelperProcess is the child process started by command gate tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("PROMODECK_WANT_HELPER_PROCESS") != "1" {
		return
	}
	os.Exit(0)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		command  string
		url      string
		wantErr  error
		wantGate bool
	}{
		{"empty is none", "", "", "", nil, false},
		{"none", ModeNone, "", "", nil, false},
		{"log", ModeLog, "", "", nil, true},
		{"browser", ModeBrowser, "", "https://locker.example/{id}", nil, true},
		{"browser without url", ModeBrowser, "", "", ErrMissingTarget, false},
		{"command", ModeCommand, "notify-send unlocked {id}", "", nil, true},
		{"command blank", ModeCommand, "   ", "", ErrMissingTarget, false},
		{"unknown", Mode("popup"), "", "", ErrUnknownMode, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, err := Resolve(tt.mode, tt.command, tt.url)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error = %v", err)
			}
			if got := factory(101) != nil; got != tt.wantGate {
				t.Errorf("gate present = %v, want %v", got, tt.wantGate)
			}
		})
	}
}

func TestLogGateRecordsCall(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(nil)

	if err := Log(103)(); err != nil {
		t.Fatalf("Log gate error = %v", err)
	}
	if logs.FilterMessage("Disclosure gate called").Len() != 1 {
		t.Error("expected one gate log entry")
	}
}

func TestCommandStartFailure(t *testing.T) {
	g := Command("promodeck-no-such-binary-xyz")
	if err := g(); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestCommandStartsProcess(t *testing.T) {
	t.Setenv("PROMODECK_WANT_HELPER_PROCESS", "1")

	g := Command(os.Args[0], "-test.run=TestHelperProcess")
	if err := g(); err != nil {
		t.Fatalf("Command gate error = %v", err)
	}
}

func TestExpand(t *testing.T) {
	if got := expand("https://locker.example/?c={id}&r={id}", 42); got != "https://locker.example/?c=42&r=42" {
		t.Errorf("expand() = %q", got)
	}
}

func TestOpener(t *testing.T) {
	name, args := opener("https://locker.example")
	if name == "" || len(args) == 0 || args[len(args)-1] != "https://locker.example" {
		t.Errorf("opener() = %q %v", name, args)
	}
}
