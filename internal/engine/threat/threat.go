// Package threat flags clients whose failed logins suggest a brute-force attempt.
package threat

import (
	"net/http"

	"github.com/crimson-sun/logwarden/internal/engine/counter"
	"github.com/crimson-sun/logwarden/internal/engine/store"
	"github.com/crimson-sun/logwarden/internal/model"
)

// DefaultThreshold is the failed-login count a client must exceed to be flagged.
const DefaultThreshold = 10

// FailedLoginStatus is the status code counted as a failed login.
const FailedLoginStatus = http.StatusUnauthorized

// Detector flags clients with more than Threshold failed logins.
type Detector struct {
	Threshold int
}

// New creates a Detector with the given threshold.
func New(threshold int) *Detector {
	return &Detector{Threshold: threshold}
}

// Detect returns every client whose 401 count is strictly greater than the
// threshold, highest count first, ties in first-appearance order. No
// suspects is an empty, non-nil slice.
func (d *Detector) Detect(s *store.Store) []model.SuspiciousClient {
	c := counter.New()
	for _, rec := range s.All() {
		if rec.StatusCode == FailedLoginStatus {
			c.Add(rec.ClientAddress)
		}
	}
	out := []model.SuspiciousClient{}
	for _, e := range c.Ranked() {
		if e.Count > d.Threshold {
			out = append(out, model.SuspiciousClient{ClientAddress: e.Key, FailedLoginCount: e.Count})
		}
	}
	return out
}
