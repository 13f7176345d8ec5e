/*
Package domain contains the core domain models of the ticketchat dialogue controller.

It defines the values threaded through a conversational turn: Messages, the
DialogueState carried between turns, the tagged Intent produced by classification
and the fixed set of controller Steps. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Message: A single Human or Assistant utterance. Immutable once created.
  - DialogueState: Chronological history plus the per-turn scratch fields.
  - Intent: Result of classifying the latest Human message (LIST_ALL, LIST_BY_STATUS, SUMMARIZE, CHAT, NOOP).
  - Step: A state of the turn controller (agent, tools, summarizer, done).
  - Ticket: Issue-tracker record used by ticket sources when formatting answers.
*/
package domain
