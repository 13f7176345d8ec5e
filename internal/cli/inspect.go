package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/ticketchat/internal/presentation/graph"
	"github.com/aretw0/ticketchat/internal/runtime"
)

// RunClassify prints the intent text would be routed to.
func RunClassify(opts Options, text string, out io.Writer) error {
	app, err := opts.setup(false)
	if err != nil {
		return err
	}
	defer app.Close()

	in, err := app.Engine.Classify(context.Background(), text)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, in.String())
	return nil
}

// RunGraph prints the controller graph as Mermaid.
// With a message, the message is run as a single turn and its path is highlighted.
func RunGraph(opts Options, message string, out io.Writer) error {
	if message == "" {
		fmt.Fprint(out, graph.GenerateMermaid(runtime.Graph(), nil))
		return nil
	}

	app, err := opts.setup(false)
	if err != nil {
		return err
	}
	defer app.Close()

	state, err := app.Engine.Turn(context.Background(), nil, message)
	if err != nil {
		return err
	}
	fmt.Fprint(out, graph.GenerateMermaid(app.Engine.Graph(), graph.OverlayFromPath(state.Path)))
	return nil
}
