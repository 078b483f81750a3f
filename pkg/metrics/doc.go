/*
Package metrics exposes Prometheus counters and gauges for runtime
introspection: actor counts by lifecycle state, per-supervisor queue depth,
dispatch/forward counters, request timeout rate and latency, armed timer
counts, and spawner restart counts.

This is operational observability and is independent of the pluggable
message stringifier in pkg/stringify, which exists for human-readable debug
logs rather than metrics aggregation.

	hive_actors_total{state="operational"}
	hive_queue_depth{supervisor="sup-1"}
	hive_request_timeouts_total{supervisor="sup-1"}

Handler() returns the standard promhttp handler for wiring into an
http.ServeMux.
*/
package metrics
