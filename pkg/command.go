package semnote

import (
	"fmt"
	"strings"
)

// CommandKind identifies the variant of a Command.
type CommandKind int

const (
	IncMajor CommandKind = iota + 1
	IncMinor
	IncPatchFromMerge
	IncPatchFromLinearCommit
	IncPatchManual
	SetVersion
	SetPrereleaseLabel
	ClearPrereleaseLabel
)

var commandKindNames = map[CommandKind]string{
	IncMajor:                 "inc-major",
	IncMinor:                 "inc-minor",
	IncPatchFromMerge:        "inc-patch-merge",
	IncPatchFromLinearCommit: "inc-patch-commit",
	IncPatchManual:           "inc-patch-manual",
	SetVersion:               "set-version",
	SetPrereleaseLabel:       "set-prerelease",
	ClearPrereleaseLabel:     "clear-prerelease",
}

func (k CommandKind) String() string {
	if name, ok := commandKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is a version instruction resolved from a single commit.
// Arg holds the version text for SetVersion and the label for
// SetPrereleaseLabel; it is empty otherwise.
type Command struct {
	Kind   CommandKind
	Arg    string
	Commit string
}

func (c Command) String() string {
	if c.Arg == "" {
		return c.Kind.String()
	}
	return c.Kind.String() + " " + c.Arg
}

// CountMethod selects which implicit patch bumps are counted.
type CountMethod int

const (
	// CountMerge counts merge commits as patch bumps.
	CountMerge CountMethod = iota + 1
	// CountCommit counts every non-merge commit and manual patch notes.
	CountCommit
	// CountManual counts only manual patch notes.
	CountManual
)

func (m CountMethod) String() string {
	switch m {
	case CountMerge:
		return "merge"
	case CountCommit:
		return "commit"
	case CountManual:
		return "manual"
	}
	return fmt.Sprintf("CountMethod(%d)", int(m))
}

// Valid reports whether m is one of the known count methods.
func (m CountMethod) Valid() bool {
	return m == CountMerge || m == CountCommit || m == CountManual
}

// ParseCountMethod parses "merge", "commit" or "manual" (case-insensitive).
func ParseCountMethod(s string) (CountMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "merge":
		return CountMerge, nil
	case "commit":
		return CountCommit, nil
	case "manual":
		return CountManual, nil
	}
	return 0, fmt.Errorf("%w: %q (want merge, commit or manual)", ErrInvalidCountMethod, s)
}
