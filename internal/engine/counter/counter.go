// Package counter counts string keys while remembering the order in which
// each key was first seen.
package counter

import "sort"

// Entry is a key and the number of times it was added.
type Entry struct {
	Key   string
	Count int
}

// Counter is an insertion-ordered multiset of strings.
type Counter struct {
	index   map[string]int // key -> position in entries
	entries []Entry
}

// New creates an empty Counter.
func New() *Counter {
	return &Counter{index: make(map[string]int)}
}

// Add counts one occurrence of key.
func (c *Counter) Add(key string) {
	if i, ok := c.index[key]; ok {
		c.entries[i].Count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: key, Count: 1})
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.entries)
}

// Count returns how many times key was added.
func (c *Counter) Count(key string) int {
	if i, ok := c.index[key]; ok {
		return c.entries[i].Count
	}
	return 0
}

// Entries returns all keys in first-seen order.
func (c *Counter) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Ranked returns all keys by count descending. Equal counts keep
// first-seen order.
func (c *Counter) Ranked() []Entry {
	out := c.Entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Max returns the key with the highest count, the earliest-seen one on ties.
// ok is false when the counter is empty.
func (c *Counter) Max() (best Entry, ok bool) {
	for _, e := range c.entries {
		if !ok || e.Count > best.Count {
			best, ok = e, true
		}
	}
	return best, ok
}
