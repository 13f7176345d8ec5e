/*
Package runner implements the interactive chat loop on top of a ports.TurnEngine.

The runner owns the conversation between turns: it reads a line from an
IOHandler, runs one turn, prints the assistant replies the turn produced and
keeps the resulting DialogueState for the next line. A failed turn is reported
and the previous state is kept, so the user can simply try again.

# Key Components

  - Runner: the read-turn-print loop.
  - IOHandler: decouples how lines are read and replies are shown.
  - TextHandler: "You: " / "AI: " terminal interaction.
  - JSONHandler: JSON-Lines interaction for scripting.

# Usage

	r := runner.NewRunner(engine,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
