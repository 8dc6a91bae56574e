// Package topk keeps the k most frequent keys of a stream of counts.
package topk

import (
	"container/heap"
	"sort"
)

// Entry is a key with its frequency
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// less orders entries from least to most significant: lower count first,
// and on equal counts the larger key first
func less(a, b Entry) bool {
	if a.Count != b.Count {
		return a.Count < b.Count
	}
	return a.Key > b.Key
}

// minHeap keeps the least significant entry at the root
type minHeap []Entry

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return less(h[i], h[j]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x interface{}) {
	*h = append(*h, x.(Entry))
}

func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Accumulator retains at most k entries with the highest counts seen.
// It is not safe for concurrent use; the pipeline merges on one goroutine.
type Accumulator struct {
	k    int
	heap minHeap
}

// New creates an accumulator for the top k entries.
// k <= 0 yields an accumulator that keeps nothing.
func New(k int) *Accumulator {
	if k < 0 {
		k = 0
	}
	return &Accumulator{
		k:    k,
		heap: make(minHeap, 0, k+1),
	}
}

// Add offers an entry, evicting the least significant one when more than k
// are held
func (a *Accumulator) Add(e Entry) {
	if a.k == 0 {
		return
	}
	heap.Push(&a.heap, e)
	if a.heap.Len() > a.k {
		heap.Pop(&a.heap)
	}
}

// AddAll offers every entry in entries
func (a *Accumulator) AddAll(entries []Entry) {
	for _, e := range entries {
		a.Add(e)
	}
}

// Merge offers every entry held by other. Merging partials computed over
// disjoint key sets gives the same result as one accumulator over all keys.
func (a *Accumulator) Merge(other *Accumulator) {
	a.AddAll(other.Result())
}

// Len returns the number of entries held
func (a *Accumulator) Len() int {
	return a.heap.Len()
}

// K returns the capacity
func (a *Accumulator) K() int {
	return a.k
}

// Result returns the held entries sorted by descending count, then
// ascending key. The accumulator is left unchanged.
func (a *Accumulator) Result() []Entry {
	result := make([]Entry, len(a.heap))
	copy(result, a.heap)
	sort.Slice(result, func(i, j int) bool {
		return less(result[j], result[i])
	})
	return result
}

// Of computes the top k entries of a complete count map
func Of(counts map[string]int, k int) []Entry {
	acc := New(k)
	for key, count := range counts {
		acc.Add(Entry{Key: key, Count: count})
	}
	return acc.Result()
}
