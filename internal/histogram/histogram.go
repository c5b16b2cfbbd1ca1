package histogram

import "sort"

// Histogram maps bucket keys to counts. It carries no ordering.
type Histogram map[Key]int64

// Add increments key by n, inserting it when absent.
func (h Histogram) Add(key Key, n int64) {
	h[key] += n
}

// AddAll adds every count of other into h.
func (h Histogram) AddAll(other Histogram) {
	for key, n := range other {
		h[key] += n
	}
}

// Total returns the sum of all counts.
func (h Histogram) Total() int64 {
	var total int64
	for _, n := range h {
		total += n
	}
	return total
}

// Clone returns an independent copy of h.
func (h Histogram) Clone() Histogram {
	c := make(Histogram, len(h))
	for key, n := range h {
		c[key] = n
	}
	return c
}

// Entry is a single bucket of a histogram.
type Entry struct {
	Key   Key   `json:"bucket" yaml:"bucket"`
	Count int64 `json:"count" yaml:"count"`
}

// Entries returns the buckets sorted by ascending count. Equal counts are
// ordered by ascending key so the result is the same on every run.
func (h Histogram) Entries() []Entry {
	entries := make([]Entry, 0, len(h))
	for key, n := range h {
		entries = append(entries, Entry{Key: key, Count: n})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count < entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}
