// Package events carries audit events out of the gateway. Publication is
// best-effort: the gateway treats a failed publish as a logged warning, not
// as a failed payment.
package events

import "context"

// Topics names the two audit streams: raw provider results go to Log on
// every successful provider interaction, and the transport layer forwards
// capture-equivalent responses to Results.
type Topics struct {
	Results string
	Log     string
}

// Sink accepts an opaque serialized record for one topic.
type Sink interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
