package semnote

import (
	"fmt"
	"slices"
)

// Commit is one node of the commit graph.
type Commit struct {
	ID      string
	Parents []string
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool { return len(c.Parents) > 1 }

// CommitGraph is the read-only view of a history needed to derive a version.
//
// CommitsFromHead returns the commits reachable from the head in topological
// order, newest first: a commit never precedes one of its walked children. It
// returns ErrNoCommits when the head has no reachable commit.
//
// AnnotationOf returns the note attached to a commit and whether one exists.
// A missing note is not an error.
type CommitGraph interface {
	CommitsFromHead() ([]Commit, error)
	AnnotationOf(id string) (string, bool, error)
}

// MemoryGraph is an in-memory CommitGraph. It backs tests and the go-git
// reader. The zero value is an empty repository.
type MemoryGraph struct {
	head    string
	commits map[string]Commit
	notes   map[string]string
}

// NewMemoryGraph returns an empty graph.
func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{
		commits: make(map[string]Commit),
		notes:   make(map[string]string),
	}
}

// Add records a commit and moves the head to it.
func (g *MemoryGraph) Add(id string, parents ...string) *MemoryGraph {
	if g.commits == nil {
		g.commits = make(map[string]Commit)
	}
	g.commits[id] = Commit{ID: id, Parents: slices.Clone(parents)}
	g.head = id
	return g
}

// Annotate attaches (or replaces) the note on a commit.
func (g *MemoryGraph) Annotate(id, note string) *MemoryGraph {
	if g.notes == nil {
		g.notes = make(map[string]string)
	}
	g.notes[id] = note
	return g
}

// SetHead moves the head to an existing commit id.
func (g *MemoryGraph) SetHead(id string) *MemoryGraph {
	g.head = id
	return g
}

// Head returns the current head id, empty for an empty repository.
func (g *MemoryGraph) Head() string { return g.head }

func (g *MemoryGraph) AnnotationOf(id string) (string, bool, error) {
	note, ok := g.notes[id]
	return note, ok, nil
}

// CommitsFromHead walks the graph from the head. Ties between commits that are
// ready at the same time are broken by ascending commit id.
func (g *MemoryGraph) CommitsFromHead() ([]Commit, error) {
	if g.head == "" {
		return nil, ErrNoCommits
	}

	// pending counts the reachable children not yet emitted for each commit.
	pending := make(map[string]int)
	seen := map[string]bool{g.head: true}
	stack := []string{g.head}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c, ok := g.commits[id]
		if !ok {
			return nil, accessError("walk", fmt.Errorf("unknown commit %s", id))
		}
		for _, p := range c.Parents {
			pending[p]++
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}

	out := make([]Commit, 0, len(seen))
	ready := []string{g.head}
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		c := g.commits[id]
		out = append(out, Commit{ID: c.ID, Parents: slices.Clone(c.Parents)})
		for _, p := range c.Parents {
			pending[p]--
			if pending[p] == 0 {
				i, _ := slices.BinarySearch(ready, p)
				ready = slices.Insert(ready, i, p)
			}
		}
	}
	if len(out) != len(seen) {
		return nil, accessError("walk", fmt.Errorf("commit graph has a cycle"))
	}
	return out, nil
}
