package semnote

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultNotesRef is the notes ref semnote reads and writes unless configured otherwise.
const DefaultNotesRef = "refs/notes/semnote"

// ExecRepository reads and writes a repository by running the git binary.
type ExecRepository struct {
	Dir      string // working directory for git; empty means the current directory
	Head     string // revision to walk from; empty means HEAD
	NotesRef string // notes ref; empty means DefaultNotesRef

	notes map[string]string // annotated commit -> note blob, loaded on first lookup after a walk
}

// NewExecRepository returns an ExecRepository rooted at dir after checking that
// git is available.
func NewExecRepository(dir, head, notesRef string) (*ExecRepository, error) {
	if err := checkGit(); err != nil {
		return nil, err
	}
	return &ExecRepository{Dir: dir, Head: head, NotesRef: notesRef}, nil
}

// checkGit verifies that git is available on the system.
func checkGit() error {
	cmd := exec.Command("git", "--version")
	if err := cmd.Run(); err != nil {
		return accessError("git --version", errors.New("git is not available on the system"))
	}
	return nil
}

func (r *ExecRepository) head() string {
	if r.Head == "" {
		return "HEAD"
	}
	return r.Head
}

func (r *ExecRepository) notesRef() string {
	if r.NotesRef == "" {
		return DefaultNotesRef
	}
	return r.NotesRef
}

// git runs a git subcommand and returns its stdout. Failures carry stderr.
func (r *ExecRepository) git(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, accessError("git "+args[0], fmt.Errorf("%v, detail: %s", err, strings.TrimSpace(stderr.String())))
	}
	return stdout.Bytes(), nil
}

// exists reports whether rev names a commit. Exit status 1 from
// rev-parse --verify --quiet means "no such revision"; anything else is an
// access failure.
func (r *ExecRepository) exists(rev string) (bool, error) {
	cmd := exec.Command("git", "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return false, nil
	}
	return false, accessError("git rev-parse", fmt.Errorf("%v, detail: %s", err, strings.TrimSpace(stderr.String())))
}

// ResolveHead returns the full commit id the head points at.
func (r *ExecRepository) ResolveHead() (string, error) {
	ok, err := r.exists(r.head())
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoCommits
	}
	out, err := r.git("rev-parse", r.head()+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitsFromHead lists the reachable commits with git rev-list and orders
// them through MemoryGraph, so both backends share one traversal order. Each
// call drops the notes read by the previous walk.
func (r *ExecRepository) CommitsFromHead() ([]Commit, error) {
	r.notes = nil

	head, err := r.ResolveHead()
	if err != nil {
		return nil, err
	}
	out, err := r.git("rev-list", "--parents", head)
	if err != nil {
		return nil, err
	}
	g := NewMemoryGraph()
	for _, c := range parseRevList(out) {
		g.Add(c.ID, c.Parents...)
	}
	return g.SetHead(head).CommitsFromHead()
}

// parseRevList parses "id parent..." lines as printed by rev-list --parents.
func parseRevList(out []byte) []Commit {
	var commits []Commit
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		commits = append(commits, Commit{ID: fields[0], Parents: fields[1:]})
	}
	return commits
}

// loadNotes reads the list of annotated commits once per repository value.
func (r *ExecRepository) loadNotes() error {
	if r.notes != nil {
		return nil
	}
	r.notes = make(map[string]string)

	ok, err := r.exists(r.notesRef())
	if err != nil || !ok {
		return err
	}
	out, err := r.git("notes", "--ref", r.notesRef(), "list")
	if err != nil {
		r.notes = nil
		return err
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		r.notes[fields[1]] = fields[0]
	}
	return nil
}

// AnnotationOf returns the note attached to commit id in the notes ref.
func (r *ExecRepository) AnnotationOf(id string) (string, bool, error) {
	if err := r.loadNotes(); err != nil {
		return "", false, err
	}
	blob, ok := r.notes[id]
	if !ok {
		return "", false, nil
	}
	out, err := r.git("cat-file", "blob", blob)
	if err != nil {
		return "", false, err
	}
	return strings.TrimRight(string(out), "\n"), true, nil
}

// Annotate writes note on commit id. Without force an existing note is an error.
func (r *ExecRepository) Annotate(id, note string, force bool) error {
	args := []string{"notes", "--ref", r.notesRef(), "add"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, "-m", note, id)
	if _, err := r.git(args...); err != nil {
		return err
	}
	r.notes = nil
	return nil
}

// RemoveAnnotation deletes the note on commit id. A missing note is not an error.
func (r *ExecRepository) RemoveAnnotation(id string) error {
	if _, err := r.git("notes", "--ref", r.notesRef(), "remove", "--ignore-missing", id); err != nil {
		return err
	}
	r.notes = nil
	return nil
}

// PushNotes publishes the notes ref to remote.
func (r *ExecRepository) PushNotes(remote string) error {
	_, err := r.git("push", remote, r.notesRef()+":"+r.notesRef())
	return err
}

// PullNotes fetches the notes ref from remote, replacing the local one.
func (r *ExecRepository) PullNotes(remote string) error {
	if _, err := r.git("fetch", remote, "+"+r.notesRef()+":"+r.notesRef()); err != nil {
		return err
	}
	r.notes = nil
	return nil
}
