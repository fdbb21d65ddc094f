package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/AntonStoeckl/entity-eventstore-go/example/mailing"
)

var errCountMismatch = errors.New("routed and stored event counts differ")

// report holds the routed and the stored event counts per event type.
type report struct {
	routed map[string]int
	stored map[string]int
}

// verify reads every stream the tracker created and compares what is stored with what was routed.
func (t *tracker) verify(ctx context.Context) (report, error) {
	r := report{routed: t.routed.snapshot(), stored: make(map[string]int)}

	for _, id := range t.streamIDs() {
		events, err := t.engine.ReadStream(ctx, id, 0)
		if err != nil {
			return r, err
		}

		for _, event := range events {
			r.stored[event.EventType]++
		}
	}

	if !maps.Equal(r.routed, r.stored) {
		return r, errCountMismatch
	}

	return r, nil
}

func (r report) total() int {
	total := 0
	for _, n := range r.stored {
		total += n
	}

	return total
}

func (r report) print(out io.Writer) {
	fmt.Fprintf(out, "New Accounts: %d (with %d updates)\n",
		r.stored[mailing.AccountCreatedEventType], r.stored[mailing.AccountNameChangedEventType])
	fmt.Fprintf(out, "New Campaigns: %d (with %d updates)\n",
		r.stored[mailing.AccountCampaignAddedEventType], r.stored[mailing.CampaignNameChangedEventType])
	fmt.Fprintf(out, "New Mailings: %d\n", r.stored[mailing.CampaignMailingSentEventType])
	fmt.Fprintf(out, "New Addresses: %d\n", r.stored[mailing.AccountMemberAddedEventType])
	fmt.Fprintf(out, "\nOpens: %d\n", r.stored[mailing.MailingOpenedEventType])
	fmt.Fprintf(out, "Clicks: %d\n", r.stored[mailing.MailingClickedEventType])
	fmt.Fprintf(out, "Shares: %d\n", r.stored[mailing.MailingSharedEventType])
	fmt.Fprintf(out, "\nTotal: %d\n", r.total())

	for _, eventType := range slices.Sorted(maps.Keys(r.routed)) {
		if r.routed[eventType] != r.stored[eventType] {
			fmt.Fprintf(out, "MISMATCH %s: routed %d, stored %d\n", eventType, r.routed[eventType], r.stored[eventType])
		}
	}
}
