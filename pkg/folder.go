package semnote

import (
	"errors"
	"fmt"
	"math"
)

// FoldState is the accumulator threaded through a fold.
type FoldState struct {
	Version Version
	// SuppressNextMergePatch is set by a major or minor bump and consumed by
	// the next IncPatchFromMerge. It is a flag, not a counter.
	SuppressNextMergePatch bool
}

// Step applies one command to the state and returns the new state. A bump
// that would overflow a component fails with an InvalidVersionError.
func (s FoldState) Step(cmd Command, method CountMethod) (FoldState, error) {
	switch cmd.Kind {
	case IncMajor:
		if s.Version.Major == math.MaxUint64 {
			return s, overflowError(cmd, s.Version, "major")
		}
		return FoldState{Version: s.Version.IncMajor(), SuppressNextMergePatch: true}, nil
	case IncMinor:
		if s.Version.Minor == math.MaxUint64 {
			return s, overflowError(cmd, s.Version, "minor")
		}
		return FoldState{Version: s.Version.IncMinor(), SuppressNextMergePatch: true}, nil
	case IncPatchFromMerge:
		if s.SuppressNextMergePatch {
			s.SuppressNextMergePatch = false
			return s, nil
		}
		if method == CountMerge {
			return s.incPatch(cmd)
		}
		return s, nil
	case IncPatchFromLinearCommit:
		if method == CountCommit {
			return s.incPatch(cmd)
		}
		return s, nil
	case IncPatchManual:
		if method == CountManual || method == CountCommit {
			return s.incPatch(cmd)
		}
		return s, nil
	case SetVersion:
		v, err := ParseVersion(cmd.Arg)
		if err != nil {
			var ive *InvalidVersionError
			if errors.As(err, &ive) {
				ive.Commit = cmd.Commit
			}
			return s, err
		}
		s.Version = v
		return s, nil
	case SetPrereleaseLabel:
		if !ValidLabel(cmd.Arg) {
			return s, &InvalidVersionError{
				Commit: cmd.Commit,
				Text:   cmd.Arg,
				Err:    errors.New("invalid prerelease label"),
			}
		}
		s.Version = s.Version.WithPrerelease(cmd.Arg)
		return s, nil
	case ClearPrereleaseLabel:
		s.Version = s.Version.WithPrerelease("")
		return s, nil
	}
	return s, fmt.Errorf("unknown command %v on commit %s", cmd.Kind, cmd.Commit)
}

func (s FoldState) incPatch(cmd Command) (FoldState, error) {
	if s.Version.Patch == math.MaxUint64 {
		return s, overflowError(cmd, s.Version, "patch")
	}
	s.Version = s.Version.IncPatch()
	return s, nil
}

func overflowError(cmd Command, v Version, component string) error {
	return &InvalidVersionError{
		Commit: cmd.Commit,
		Text:   v.String(),
		Err:    fmt.Errorf("%s component overflows on %v", component, cmd.Kind),
	}
}

// StepFunc observes one fold step: the command and the states around it.
type StepFunc func(cmd Command, before, after FoldState)

// Fold replays commands in the given (chronological) order starting from
// 0.0.0 and returns the resulting version.
func Fold(cmds []Command, method CountMethod) (Version, error) {
	return FoldFunc(cmds, method, nil)
}

// FoldFunc is Fold with an optional observer called after every step.
func FoldFunc(cmds []Command, method CountMethod, onStep StepFunc) (Version, error) {
	if !method.Valid() {
		return Version{}, fmt.Errorf("%w: %v", ErrInvalidCountMethod, method)
	}
	var state FoldState
	for _, cmd := range cmds {
		next, err := state.Step(cmd, method)
		if err != nil {
			return Version{}, err
		}
		if onStep != nil {
			onStep(cmd, state, next)
		}
		state = next
	}
	return state.Version, nil
}
