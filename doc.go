// Package karabo provides a Go library for budget-aware sky partitioning and
// distributed interferometer simulation campaigns.
//
// Karabo splits a point-source sky catalog into frequency-rank chunks sized
// to the per-worker memory budget, dispatches the chunks to a simulation
// engine through an executor (in-process or NATS request/reply), and drives
// strictly sequential multi-day observation campaigns that regenerate shared
// telescope state between days.
//
// # Quick Start
//
// Basic usage with a local simulator:
//
//	import "github.com/anawas/Karabo-Pipeline"
//
//	cfg := karabo.Config{
//	    OutputDir:     "/data/run1",
//	    TelescopePath: "/data/meerkat.tm",
//	    Observation: karabo.Observation{
//	        StartFrequencyHz: 100e6,
//	        NumberOfChannels: 64,
//	        NumberOfDays:     3,
//	    },
//	}
//
//	campaign, err := karabo.NewCampaign(&cfg, catalog, sim)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	artifacts, err := campaign.Run(ctx)
//
// # Key Features
//
//   - Budget-Aware Partitioning: Chunks split on dense frequency ranks and
//     escalated until they fit the per-worker memory ceiling
//   - Order-Preserving Dispatch: Fan-out/gather with results in submission
//     order and atomic failure reporting
//   - Campaign Orchestration: Sequential day loop with per-day telescope
//     snapshots, derived-state purge, and date substitution
//   - Remote Execution: NATS request/reply workers with JetStream KV
//     presence for worker discovery
//
// # Architecture
//
// A campaign day flows through fixed steps:
//
//	CLONE SKY → LOAD TELESCOPE → PURGE DERIVED → FIT BEAMS → PARTITION → DISPATCH → PERSIST
//
// Each step owns its state: the base catalog and configuration are never
// mutated, so every day starts from pristine inputs.
//
// # Advanced Usage
//
// Remote execution over NATS with custom partitioning:
//
//	exec, _ := dispatch.NewNATSExecutor(ctx, nc, dispatch.ExecutorConfig{})
//	splitter := partition.NewFrequencySplitter(partition.WithMaxEscalations(8))
//
//	campaign, err := karabo.NewCampaign(&cfg, catalog, sim,
//	    karabo.WithExecutor(exec),
//	    karabo.WithSplitter(splitter),
//	)
package karabo
