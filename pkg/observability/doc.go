/*
Package observability turns controller lifecycle events into Prometheus
metrics and structured log lines.

Both are exposed as domain.LifecycleHooks so they can be merged and handed to
an engine with WithLifecycleHooks.
*/
package observability
