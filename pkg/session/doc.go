/*
Package session keeps server-side conversations.

A Manager sits in front of a ports.ConversationStore and serializes access per
session ID, locally with reference-counted mutexes and optionally across
replicas with a ports.DistributedLocker. Hosts that do not want to carry the
history themselves (the CLI, MCP clients) run turns through Manager.Turn.
*/
package session
