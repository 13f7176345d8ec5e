// Package middleware decorates conversation stores with at-rest protections.
package middleware

import "github.com/aretw0/ticketchat/pkg/ports"

// Middleware allows wrapping a ConversationStore to add behavior.
type Middleware func(ports.ConversationStore) ports.ConversationStore

// Wrap applies mws to store. The first middleware is the outermost.
func Wrap(store ports.ConversationStore, mws ...Middleware) ports.ConversationStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
