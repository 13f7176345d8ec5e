/*
Package runtime implements the turn controller.

A turn is one pass through a fixed state machine:

	agent ──list──▶ tools ──────▶ done
	  │    ──summarize──▶ summarizer ──▶ done
	  └──── chat / noop ───────────▶ done

The agent step classifies the latest Human message and either answers it
directly (chat, noop) or records a scratch field for the handler step that
follows. Handler steps make exactly one collaborator call and clear every
scratch field before the turn ends.
*/
package runtime
