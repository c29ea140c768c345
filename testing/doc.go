// Package testing provides test utilities for the Karabo pipeline.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for integration testing. It follows Go's convention
// of providing testing utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - NewTestLogger: Logger backed by testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    karabotest "github.com/anawas/Karabo-Pipeline/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := karabotest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
