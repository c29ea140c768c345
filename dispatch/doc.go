// Package dispatch submits partitioned work items to a pool of simulation
// workers and gathers their results.
//
// The Dispatcher implements the submit-then-block-until-all-complete
// protocol: every item is submitted concurrently, results are returned in
// submission order, and the first task failure fails the whole call with no
// partial results. There is no retry, timeout, or cancellation of in-flight
// sibling tasks.
//
// Two executors are provided: Local runs the simulation engine in-process
// (single-machine mode), and NATSExecutor fans items out to remote workers
// over NATS request/reply, discovering the live worker count from a
// JetStream KV presence bucket.
package dispatch
