// Package internal holds small helpers shared by the esil packages.
package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Concat2 yields every pair of each sequence in turn.
func Concat2[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Tagged yields the keys of a map in order, each paired with the same tag
// and formatted by name.
func Tagged[K cmp.Ordered, V any](tag string, m map[K]V, name func(K) string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(tag, name(k)) {
				return
			}
		}
	}
}
