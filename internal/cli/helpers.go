package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/voxport/internal/logging"
	"github.com/aretw0/voxport/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// createLogger configures the application logger. --debug wins over the
// configured level.
func createLogger(level string, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return logging.NewNop(), err
	}
	return logging.New(lvl), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

// resumeCommand returns the command line that continues a chain halted on
// cellErr. prefix is everything after the program name and before the range
// arguments, global flags included.
func resumeCommand(prefix []string, cellErr *domain.CellError, rng domain.Range) string {
	args := append([]string{"voxport"}, prefix...)
	args = append(args, strconv.Itoa(cellErr.Sequence))
	if rng.To != -1 {
		args = append(args, strconv.Itoa(rng.To))
	}
	return strings.Join(args, " ")
}

// reportChainError prints where a chain stopped and how to resume it. The
// error is returned unchanged unless the run was interrupted by a signal.
func reportChainError(w io.Writer, err error, sig os.Signal, prefix []string, rng domain.Range) error {
	var cellErr *domain.CellError
	if !errors.As(err, &cellErr) {
		return err
	}

	if isInterrupted(err) {
		what := "Interrupted"
		if sig != nil && sig != os.Interrupt {
			what = "Terminated"
		}
		printSystemMessage(w, "%s at cell %s (%d).", what, cellErr.PosID, cellErr.Sequence)
		printSystemMessage(w, "resume with: %s", resumeCommand(prefix, cellErr, rng))
		return nil
	}

	printSystemMessage(w, "Failed at cell %s (%d) during %s.", cellErr.PosID, cellErr.Sequence, cellErr.Phase)
	printSystemMessage(w, "resume with: %s", resumeCommand(prefix, cellErr, rng))
	return err
}

// shellQuote quotes s when a POSIX shell would split or expand it.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
