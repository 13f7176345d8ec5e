/*
Package observability turns controller lifecycle events into logs and Prometheus metrics.

Both are delivered as domain.LifecycleHooks, so they can be combined with Chain
and passed to the controller through WithLifecycleHooks.
*/
package observability
