package gate

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/promodeck/internal/logging"
	"github.com/muurk/promodeck/internal/unlock"
)

// Mode names a gate implementation selectable from config or flags.
type Mode string

const (
	ModeNone    Mode = "none"
	ModeLog     Mode = "log"
	ModeBrowser Mode = "browser"
	ModeCommand Mode = "command"
)

// Modes lists the accepted values of --gate in display order.
var Modes = []Mode{ModeNone, ModeLog, ModeBrowser, ModeCommand}

// IDPlaceholder in a locker URL or command is replaced with the code id.
const IDPlaceholder = "{id}"

var (
	// ErrUnknownMode is returned by Resolve for an unrecognised mode.
	ErrUnknownMode = errors.New("unknown gate mode")

	// ErrMissingTarget is returned when browser or command mode has
	// nothing to open or run.
	ErrMissingTarget = errors.New("gate mode requires a target")
)

// Factory builds the gate for one promo code. A nil result means the
// code has no gate and unlocks through the fallback path.
type Factory func(codeID int) unlock.Gate

// None never provides a gate.
func None(int) unlock.Gate { return nil }

// Log returns a gate that only records the call.
func Log(codeID int) unlock.Gate {
	return func() error {
		logging.Info("Disclosure gate called", zap.Int("code_id", codeID))
		return nil
	}
}

// Command returns a gate that starts name with args and does not wait for
// it. The process is reaped in the background.
func Command(name string, args ...string) unlock.Gate {
	return func() error {
		cmd := exec.Command(name, args...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				logging.Debug("Gate command exited", zap.String("command", name), zap.Error(err))
			}
		}()
		return nil
	}
}

// Browser returns a gate that opens url with the platform opener.
func Browser(url string) unlock.Gate {
	name, args := opener(url)
	return Command(name, args...)
}

func opener(url string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Resolve returns the factory for mode. lockerURL is used by browser mode,
// command by command mode; both may contain IDPlaceholder.
func Resolve(mode Mode, command, lockerURL string) (Factory, error) {
	switch mode {
	case "", ModeNone:
		return None, nil

	case ModeLog:
		return Log, nil

	case ModeBrowser:
		if lockerURL == "" {
			return nil, fmt.Errorf("%w: %s needs a locker URL", ErrMissingTarget, mode)
		}
		return func(codeID int) unlock.Gate {
			return Browser(expand(lockerURL, codeID))
		}, nil

	case ModeCommand:
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: %s needs a command", ErrMissingTarget, mode)
		}
		return func(codeID int) unlock.Gate {
			args := make([]string, len(fields)-1)
			for i, f := range fields[1:] {
				args[i] = expand(f, codeID)
			}
			return Command(fields[0], args...)
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownMode, mode, joinModes())
	}
}

func expand(s string, codeID int) string {
	return strings.ReplaceAll(s, IDPlaceholder, strconv.Itoa(codeID))
}

func joinModes() string {
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
