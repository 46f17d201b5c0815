// Package search builds a queryable in-memory index over a note snapshot.
//
// The index is immutable for the lifetime of one repository snapshot and is
// rebuilt wholesale whenever the note set changes.
package search

import (
	"strings"

	"github.com/starford/berkano/internal/garden"
)

// Relevance weights. Tiers never interleave: every tag match outranks every
// title match, which outranks every body match.
const (
	WeightTag   = 3
	WeightTitle = 2
	WeightBody  = 1
)

// Match is one search hit.
type Match struct {
	ID     string
	Weight int
}

type entry struct {
	id    string
	tags  map[string]struct{}
	title string // lowercased
	body  string // lowercased
}

// Index holds pre-lowered note content for case-insensitive matching.
type Index struct {
	entries []entry
}

// Build indexes the given note sequence. Callers pass the publish-filtered
// chronological snapshot so that ranking ties fall back to newest-first.
func Build(notes []garden.Note) *Index {
	ix := &Index{entries: make([]entry, 0, len(notes))}
	for _, n := range notes {
		tags := make(map[string]struct{}, len(n.Tags))
		for _, t := range n.Tags {
			tags[strings.ToLower(t)] = struct{}{}
		}
		ix.entries = append(ix.entries, entry{
			id:    n.ID,
			tags:  tags,
			title: strings.ToLower(n.Title),
			body:  strings.ToLower(n.Body),
		})
	}
	return ix
}

// Query returns matches ordered by descending relevance, ties broken by the
// snapshot order (newest first). Each note appears at most once, scored at
// its highest matching tier. The empty query matches nothing.
func (ix *Index) Query(text string) []Match {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return nil
	}

	var tagHits, titleHits, bodyHits []Match
	for _, e := range ix.entries {
		if _, ok := e.tags[q]; ok {
			tagHits = append(tagHits, Match{ID: e.id, Weight: WeightTag})
			continue
		}
		if strings.Contains(e.title, q) {
			titleHits = append(titleHits, Match{ID: e.id, Weight: WeightTitle})
			continue
		}
		if strings.Contains(e.body, q) {
			bodyHits = append(bodyHits, Match{ID: e.id, Weight: WeightBody})
		}
	}

	out := make([]Match, 0, len(tagHits)+len(titleHits)+len(bodyHits))
	out = append(out, tagHits...)
	out = append(out, titleHits...)
	out = append(out, bodyHits...)
	return out
}

// IDs extracts the note ids from a match sequence, preserving order.
func IDs(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.ID
	}
	return out
}
