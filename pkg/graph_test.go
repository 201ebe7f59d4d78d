package semnote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(commits []Commit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.ID
	}
	return out
}

func TestMemoryGraphOrder(t *testing.T) {
	g := NewMemoryGraph().
		Add("a").
		Add("b", "a").
		Add("d", "b").
		Add("c", "a").
		Add("e", "d", "c")

	commits, err := g.CommitsFromHead()
	require.NoError(t, err)
	// c and d become ready together after e; c wins the tie.
	assert.Equal(t, []string{"e", "c", "d", "b", "a"}, ids(commits))
	assert.True(t, commits[0].IsMerge())
	assert.Equal(t, []string{"d", "c"}, commits[0].Parents)
}

// A commit is emitted only after all of its reachable children.
func TestMemoryGraphTopological(t *testing.T) {
	g := NewMemoryGraph().
		Add("0").
		Add("1", "0").
		Add("2", "1").
		Add("3", "0").
		Add("4", "3", "2").
		Add("5", "1").
		Add("6", "4", "5")

	commits, err := g.CommitsFromHead()
	require.NoError(t, err)
	require.Len(t, commits, 7)

	pos := make(map[string]int)
	for i, c := range commits {
		pos[c.ID] = i
	}
	for _, c := range commits {
		for _, p := range c.Parents {
			assert.Less(t, pos[c.ID], pos[p], "%s must precede its parent %s", c.ID, p)
		}
	}
}

func TestMemoryGraphWalksFromHead(t *testing.T) {
	g := NewMemoryGraph().
		Add("a").
		Add("b", "a").
		Add("c", "b").
		SetHead("b")

	commits, err := g.CommitsFromHead()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(commits))
	assert.Equal(t, "b", g.Head())
}

func TestMemoryGraphAnnotations(t *testing.T) {
	g := NewMemoryGraph().Add("a").Annotate("a", "first").Annotate("a", "second")

	note, ok, err := g.AnnotationOf("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", note)

	_, ok, err = g.AnnotationOf("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryGraphErrors(t *testing.T) {
	_, err := NewMemoryGraph().CommitsFromHead()
	assert.ErrorIs(t, err, ErrNoCommits)

	_, err = NewMemoryGraph().Add("b", "ghost").CommitsFromHead()
	assert.ErrorIs(t, err, ErrRepositoryAccess)
	assert.ErrorContains(t, err, "ghost")

	// Cycles cannot exist in git but can be built by hand.
	_, err = NewMemoryGraph().Add("a", "b").Add("b", "a").CommitsFromHead()
	assert.ErrorIs(t, err, ErrRepositoryAccess)
}

func TestParseRevList(t *testing.T) {
	out := []byte("m a b\nb a\na\n\n")
	commits := parseRevList(out)
	assert.Equal(t, []Commit{
		{ID: "m", Parents: []string{"a", "b"}},
		{ID: "b", Parents: []string{"a"}},
		{ID: "a", Parents: []string{}},
	}, commits)
}
