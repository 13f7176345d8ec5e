package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/ticketchat"
	"github.com/aretw0/ticketchat/internal/presentation/tui"
	"github.com/aretw0/ticketchat/pkg/runner"
)

// ChatOptions configures an interactive session.
type ChatOptions struct {
	Options
	// Plain disables the banner and markdown rendering.
	Plain bool
	// JSON switches to JSON-Lines input and output.
	JSON bool
	// Session names a stored conversation to resume and keep saving.
	Session string

	In  io.Reader
	Out io.Writer
}

func (o ChatOptions) streams() (io.Reader, io.Writer) {
	in, out := o.In, o.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return in, out
}

// RunChat runs a conversation on the terminal until EOF, "exit" or an interrupt.
func RunChat(opts ChatOptions) error {
	app, err := opts.setup(!opts.JSON)
	if err != nil {
		return err
	}
	defer app.Close()

	in, out := opts.streams()
	rich := !opts.Plain && !opts.JSON && opts.Out == nil && tui.IsTerminal()

	var handler runner.IOHandler
	switch {
	case opts.JSON:
		handler = runner.NewJSONHandler(in, out)
	case rich:
		tui.PrintBanner(out, ticketchat.Version)
		handler = runner.NewTextHandler(in, out, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	default:
		handler = runner.NewTextHandler(in, out)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	runOpts := []runner.Option{
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
	}
	if opts.Session != "" {
		state, loaded, err := app.Sessions.LoadOrStart(sigCtx, opts.Session)
		if err != nil {
			return err
		}
		if !opts.JSON {
			if loaded {
				printSystemMessage(out, "Resuming session '%s' (%d messages).", opts.Session, len(state.History))
			} else {
				printSystemMessage(out, "Starting session '%s'.", opts.Session)
			}
		}
		runOpts = append(runOpts,
			runner.WithInitialState(state),
			runner.WithStore(app.Sessions, opts.Session),
		)
	}

	r := runner.NewRunner(app.Engine, runOpts...)
	if err := r.Run(sigCtx); err != nil {
		return err
	}

	logCompletion(out, opts.JSON, sigCtx.Signal())
	return nil
}
