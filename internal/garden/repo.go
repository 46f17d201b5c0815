package garden

import (
	"fmt"
	"sort"

	"github.com/starford/berkano/internal/apperr"
)

// Diagnostic reports a recoverable per-note condition (parse failure,
// duplicate id). Diagnostics travel alongside the repository instead of
// aborting the run.
type Diagnostic struct {
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}

// Repository owns the full note set and its derived views. Views are
// rebuilt wholesale at construction, never patched incrementally; the
// repository goes from empty to fully populated in one step.
type Repository struct {
	byID      map[string]Note
	all       []Note              // chronological: created desc, id asc
	published []Note              // public subset, same order
	tags      map[string][]string // tag -> note ids, chronological
	backlinks map[string][]string // target id -> source ids
}

// NewRepository builds a repository from a batch of parsed notes. Input
// order is irrelevant except for duplicate resolution: when two notes share
// an id, the later one wins and a diagnostic is recorded.
func NewRepository(notes []Note) (*Repository, []Diagnostic) {
	r := &Repository{
		byID:      make(map[string]Note, len(notes)),
		tags:      make(map[string][]string),
		backlinks: make(map[string][]string),
	}

	var diags []Diagnostic
	for _, n := range notes {
		if _, exists := r.byID[n.ID]; exists {
			diags = append(diags, Diagnostic{
				Path: n.ID,
				Err:  fmt.Errorf("%w: %s (later note wins)", apperr.ErrDuplicateNoteID, n.ID),
			})
		}
		r.byID[n.ID] = n
	}

	r.all = make([]Note, 0, len(r.byID))
	for _, n := range r.byID {
		r.all = append(r.all, n)
	}
	sort.Slice(r.all, func(i, j int) bool {
		if !r.all[i].Created.Equal(r.all[j].Created) {
			return r.all[i].Created.After(r.all[j].Created)
		}
		return r.all[i].ID < r.all[j].ID
	})

	for _, n := range r.all {
		if n.Public {
			r.published = append(r.published, n)
		}
		for _, tag := range n.Tags {
			r.tags[tag] = append(r.tags[tag], n.ID)
		}
	}
	// Backlinks only for targets that exist, so a dangling link never
	// surfaces a phantom id in a derived view.
	for _, n := range r.all {
		for _, target := range n.Links {
			if _, ok := r.byID[target]; ok {
				r.backlinks[target] = append(r.backlinks[target], n.ID)
			}
		}
	}

	return r, diags
}

// Get looks up a note by id.
func (r *Repository) Get(id string) (Note, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// Len returns the number of notes in the master set.
func (r *Repository) Len() int {
	return len(r.all)
}

// Chronological returns every note ordered by created descending, ties
// broken by id ascending. Callers must not modify the returned slice.
func (r *Repository) Chronological() []Note {
	return r.all
}

// Published returns the public subset in chronological order.
func (r *Repository) Published() []Note {
	return r.published
}

// ByTag returns the notes carrying tag, in chronological order.
func (r *Repository) ByTag(tag string) []Note {
	ids := r.tags[tag]
	out := make([]Note, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out
}

// Tags returns all tags in the corpus, sorted.
func (r *Repository) Tags() []string {
	out := make([]string, 0, len(r.tags))
	for t := range r.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Backlinks returns the ids of notes linking to the given id.
func (r *Repository) Backlinks(id string) []string {
	return r.backlinks[id]
}
