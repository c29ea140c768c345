package types

import (
	"context"
	"time"
)

// Hooks defines callbacks for campaign lifecycle events.
//
// All hooks are optional. Unlike background coordination systems, the
// campaign loop is single-threaded, so hooks are invoked inline between day
// steps: a slow hook delays the next day, and a hook error is logged but
// does not abort the campaign.
type Hooks struct {
	// OnDayStart is called before a day's telescope snapshot is prepared.
	OnDayStart func(ctx context.Context, day int, date time.Time) error

	// OnDayComplete is called after a day's artifact has been persisted.
	OnDayComplete func(ctx context.Context, day int, artifactPath string) error

	// OnError is called when a day fails, before the campaign aborts.
	OnError func(ctx context.Context, day int, err error) error
}
