package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/aretw0/svgflat/internal/logging"
	"github.com/aretw0/svgflat/pkg/domain"
)

// SignalContext is a context cancelled by SIGINT or SIGTERM that remembers
// which signal arrived.
type SignalContext struct {
	context.Context
	cancel context.CancelFunc
	sig    atomic.Value
}

// NewSignalContext starts listening for SIGINT and SIGTERM until the
// returned context is done.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.sig.Store(sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Cancel stops listening and cancels the context.
func (sc *SignalContext) Cancel() { sc.cancel() }

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sig, _ := sc.sig.Load().(os.Signal)
	return sig
}

// NewLogger configures the application logger on stderr.
// Verbose selects debug level, otherwise info.
func NewLogger(verbose bool, format string) (*slog.Logger, error) {
	f, err := logging.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level, f), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnReferenceInlined: func(ctx context.Context, e *domain.ReferenceEvent) {
			logger.Debug("Reference inlined", "href", e.Reference.Href, "depth", e.Reference.Depth,
				"transform", e.Transform, "duration", e.Duration)
		},
		OnReferenceSkipped: func(ctx context.Context, e *domain.ReferenceEvent) {
			logger.Debug("Reference left in place", "href", e.Reference.Href, "depth", e.Reference.Depth,
				"outcome", e.Outcome, "err", e.Error)
		},
		OnDepthExceeded: func(ctx context.Context, depth int) {
			logger.Debug("Depth bound reached", "depth", depth)
		},
	}
}

// IsInterrupted reports whether err stems from a cancelled context, as after
// Ctrl+C.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
