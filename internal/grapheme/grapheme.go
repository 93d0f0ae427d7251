// Package grapheme provides the pure, stateless string-measurement
// operations the rest of duplex builds on: grapheme-cluster boundary
// lookup and monospace display width.
//
// Every function here treats its string argument as an opaque sequence
// of bytes with no memory of prior calls; none of them hold state or can
// fail. Callers that mutate a byte index outside these functions (for
// example after an external edit) should snap the index back to a
// boundary with BoundaryAt before using it again.
package grapheme

import "github.com/rivo/uniseg"

// BoundaryAt returns the largest grapheme-cluster boundary in s that is
// <= i. If i <= 0 it returns 0; if i >= len(s) it returns len(s).
func BoundaryAt(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}

	pos := 0
	for pos < len(s) {
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[pos:], -1)
		next := pos + len(cluster)
		if next >= i {
			if next == i {
				return i
			}
			return pos
		}
		pos = next
	}
	return len(s)
}

// Next returns the smallest grapheme-cluster boundary in s that is
// strictly greater than i, or len(s) if none exists.
func Next(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	b := BoundaryAt(s, i)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[b:], -1)
	return b + len(cluster)
}

// Prev returns the largest grapheme-cluster boundary in s that is
// strictly less than i, or 0 if none exists.
func Prev(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i > len(s) {
		i = len(s)
	}

	largest := 0
	pos := 0
	for pos < len(s) {
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[pos:], -1)
		next := pos + len(cluster)
		if next >= i {
			break
		}
		largest = next
		pos = next
	}
	return largest
}

// At returns the grapheme cluster starting at BoundaryAt(s, i), or the
// empty string if that boundary is at or past the end of s.
func At(s string, i int) string {
	b := BoundaryAt(s, i)
	if b >= len(s) {
		return ""
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[b:], -1)
	return cluster
}

// Width returns the monospace display width of s in cells. Wide
// graphemes (e.g. CJK characters, emoji) count as 2 or more; combining
// marks and zero-width joiners fold into their base cluster and
// contribute 0. Tab is special-cased to width 1 here; callers needing
// actual tab-stop expansion handle that separately (see
// internal/editor/render.go), since expansion depends on the column the
// tab starts at, which this stateless oracle does not know.
func Width(s string) int {
	total := 0
	pos := 0
	for pos < len(s) {
		cluster, _, w, _ := uniseg.FirstGraphemeClusterInString(s[pos:], -1)
		if cluster == "\t" {
			w = 1
		} else if w < 0 {
			w = 0
		}
		total += w
		pos += len(cluster)
	}
	return total
}

// Count returns the number of grapheme clusters in s.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
