/*
Package ticketchat is a turn-based conversational assistant for an issue tracker.

Each user message runs through a small state machine. An agent step classifies
the message with deterministic keyword rules and either lists the user's
tickets, summarizes one ticket, or forwards the conversation to a chat model.
The whole conversation lives in a domain.DialogueState owned by the caller;
the Engine itself keeps no per-conversation data, so one Engine can serve many
conversations at once.

# Intents

  - "show me my tickets" lists every ticket assigned to the user.
  - Mentioning a known status (e.g. "anything in progress?") lists tickets in that status.
  - "summarize ticket PROJ-123" summarizes one ticket.
  - Anything else goes to the chat model. Blank messages are ignored.

# Usage

	eng := ticketchat.New(
		ticketchat.WithTicketSource(source),
		ticketchat.WithLanguageModel(model),
	)

	var state *domain.DialogueState
	state, err := eng.Turn(ctx, state, "show me my tickets")
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range domain.AssistantReplies(state.History) {
		fmt.Println(m.Content)
	}

Adapters for Jira, Gemini, Redis, HTTP and MCP live under pkg/adapters;
the ticketchat command wires them from configuration.
*/
package ticketchat
