package domain

import "errors"

// ErrMissingScratch is returned when a handler step runs without the scratch field it needs.
var ErrMissingScratch = errors.New("scratch field not set for step")

// ErrEmptyReply is returned when the language model answers with no content.
var ErrEmptyReply = errors.New("language model returned an empty reply")

// ErrNoCollaborator is returned when a required collaborator was not configured.
var ErrNoCollaborator = errors.New("collaborator not configured")

// ErrTicketNotFound is returned by ticket sources that cannot resolve a key.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrSessionNotFound is returned by conversation stores for unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSessionID is returned for session IDs that cannot be used as storage keys.
var ErrInvalidSessionID = errors.New("invalid session id")
