/*
Package ports defines the driven ports (interfaces) of the ticketchat controller.

These interfaces decouple the dialogue core from its collaborators, allowing the
controller to work with different issue trackers, language models and front-ends.

# Key Interfaces

  - TicketSource: Lists statuses, lists tickets and summarizes a ticket (e.g., Jira or Memory).
  - LanguageModel: Produces one reply for an ordered list of Human messages (e.g., Gemini).
  - TurnEngine: The controller surface consumed by adapters (HTTP, MCP, CLI runner).
*/
package ports
