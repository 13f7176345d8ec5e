package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/aretw0/ticketchat/internal/config"
	"github.com/aretw0/ticketchat/internal/logging"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It behaves like signal.NotifyContext but remembers which signal arrived.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		sigCh:   make(chan os.Signal, 1),
	}
	sc.Cancel = func() {
		cancel()
		sc.stop.Do(func() { signal.Stop(sc.sigCh) })
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Options are the settings shared by every command.
type Options struct {
	ConfigPath string
	EnvFile    string
	Debug      bool
	LogFormat  string
	Fixtures   string
}

// LoadConfig resolves the configuration and applies flag overrides on top.
func (o Options) LoadConfig() (*config.Config, error) {
	var opts []config.Option
	if o.ConfigPath != "" {
		opts = append(opts, config.WithFile(o.ConfigPath))
	}
	if o.EnvFile != "" {
		opts = append(opts, config.WithEnvFile(o.EnvFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}

	if o.Fixtures != "" {
		cfg.Fixtures = o.Fixtures
	}
	if o.LogFormat != "" {
		cfg.Log.Format = o.LogFormat
	}
	if o.Debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// createLogger configures the application logger.
// Interactive sessions stay quiet unless debugging, since logs share the terminal with the conversation.
func createLogger(cfg *config.Config, interactive bool) *slog.Logger {
	level := logging.ParseLevel(cfg.Log.Level)
	if interactive && level > slog.LevelDebug {
		return logging.NewNop()
	}
	return logging.New(level, logging.Format(strings.ToLower(cfg.Log.Format)))
}

// setup loads the configuration and builds the App.
func (o Options) setup(interactive bool) (*App, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	return Build(cfg, createLogger(cfg, interactive))
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func logCompletion(w io.Writer, quiet bool, sig os.Signal) {
	if quiet {
		return
	}
	switch {
	case sig == os.Interrupt:
		fmt.Fprintln(w, "[CTRL+C]")
		printSystemMessage(w, "Interrupted.")
	case sig != nil:
		fmt.Fprintln(w)
		printSystemMessage(w, "Terminated.")
	default:
		printSystemMessage(w, "Goodbye!")
	}
}
