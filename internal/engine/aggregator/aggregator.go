// Package aggregator computes per-client and per-endpoint request statistics.
package aggregator

import (
	"fmt"

	"github.com/crimson-sun/logwarden/internal/engine/counter"
	"github.com/crimson-sun/logwarden/internal/engine/store"
	"github.com/crimson-sun/logwarden/internal/model"
)

// ClientRequestCounts counts records per client address, highest count first.
// Ties keep the order in which clients first appear. An empty store yields
// an empty, non-nil slice.
func ClientRequestCounts(s *store.Store) []model.ClientRequestCount {
	c := counter.New()
	for _, rec := range s.All() {
		c.Add(rec.ClientAddress)
	}
	ranked := c.Ranked()
	out := make([]model.ClientRequestCount, len(ranked))
	for i, e := range ranked {
		out[i] = model.ClientRequestCount{ClientAddress: e.Key, Count: e.Count}
	}
	return out
}

// TopEndpoint returns the most requested endpoint. Among endpoints sharing
// the highest count, the one seen first wins. Fails with model.ErrEmptyInput
// when the store holds no records.
func TopEndpoint(s *store.Store) (model.TopEndpoint, error) {
	c := counter.New()
	for _, rec := range s.All() {
		c.Add(rec.Endpoint)
	}
	best, ok := c.Max()
	if !ok {
		return model.TopEndpoint{}, fmt.Errorf("aggregator top endpoint: %w", model.ErrEmptyInput)
	}
	return model.TopEndpoint{Endpoint: best.Key, Count: best.Count}, nil
}
