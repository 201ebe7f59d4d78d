package semnote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitRepository is a read-only CommitGraph backed by go-git. It needs no git
// binary. Each walk loads the reachable history and its notes into a
// MemoryGraph, and AnnotationOf answers from the latest walk.
type GoGitRepository struct {
	repo     *git.Repository
	head     string
	notesRef string

	graph *MemoryGraph
}

// OpenGoGitRepository opens the repository containing dir.
func OpenGoGitRepository(dir, head, notesRef string) (*GoGitRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, accessError("open "+dir, err)
	}
	return NewGoGitRepository(repo, head, notesRef), nil
}

// NewGoGitRepository wraps an already opened go-git repository.
func NewGoGitRepository(repo *git.Repository, head, notesRef string) *GoGitRepository {
	if head == "" {
		head = "HEAD"
	}
	if notesRef == "" {
		notesRef = DefaultNotesRef
	}
	return &GoGitRepository{repo: repo, head: head, notesRef: notesRef}
}

// CommitsFromHead reloads the history and notes on every call.
func (r *GoGitRepository) CommitsFromHead() ([]Commit, error) {
	r.graph = nil
	g, err := r.load()
	if err != nil {
		return nil, err
	}
	return g.CommitsFromHead()
}

func (r *GoGitRepository) AnnotationOf(id string) (string, bool, error) {
	g, err := r.load()
	if err != nil {
		return "", false, err
	}
	return g.AnnotationOf(id)
}

func (r *GoGitRepository) load() (*MemoryGraph, error) {
	if r.graph != nil {
		return r.graph, nil
	}

	g := NewMemoryGraph()
	headHash, err := r.repo.ResolveRevision(plumbing.Revision(r.head))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			r.graph = g
			return g, nil
		}
		return nil, accessError("resolve "+r.head, err)
	}

	queue := []plumbing.Hash{*headHash}
	seen := map[plumbing.Hash]bool{*headHash: true}
	var order []Commit
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		c, err := r.repo.CommitObject(h)
		if err != nil {
			return nil, accessError("read commit "+h.String(), err)
		}
		commit := Commit{ID: h.String()}
		for _, p := range c.ParentHashes {
			commit.Parents = append(commit.Parents, p.String())
			if !seen[p] {
				seen[p] = true
				queue = append(queue, p)
			}
		}
		order = append(order, commit)
	}
	for _, c := range order {
		g.Add(c.ID, c.Parents...)
	}
	g.SetHead(headHash.String())

	if err := r.loadNotes(g); err != nil {
		return nil, err
	}
	r.graph = g
	return g, nil
}

// loadNotes reads the notes tree. Note paths are the annotated commit id,
// possibly split into fan-out directories ("ab/cdef...").
func (r *GoGitRepository) loadNotes(g *MemoryGraph) error {
	ref, err := r.repo.Reference(plumbing.ReferenceName(r.notesRef), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil
		}
		return accessError("read "+r.notesRef, err)
	}
	notesCommit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return accessError("read "+r.notesRef, err)
	}
	tree, err := notesCommit.Tree()
	if err != nil {
		return accessError("read "+r.notesRef, err)
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		id := strings.ReplaceAll(f.Name, "/", "")
		if _, ok := g.commits[id]; !ok {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("note %s: %w", f.Name, err)
		}
		g.Annotate(id, strings.TrimRight(content, "\n"))
		return nil
	})
	if err != nil {
		return accessError("read "+r.notesRef, err)
	}
	return nil
}
