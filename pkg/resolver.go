package semnote

import (
	"regexp"
	"strings"
)

// Note keywords recognized by the resolver. Any tool writing notes must
// produce exactly these forms.
const (
	KeywordMajor      = "semnote:major"
	KeywordMinor      = "semnote:minor"
	KeywordSet        = "semnote:set"
	KeywordPrerelease = "semnote:pre"
	KeywordRelease    = "semnote:release"
	KeywordPatch      = "semnote:patch"
)

// The set and pre rules capture the whole whitespace-delimited payload. The
// payload is validated when the command is folded, so a malformed value fails
// the derivation instead of being cut down to a valid prefix.
var (
	setVersionPattern = regexp.MustCompile(regexp.QuoteMeta(KeywordSet) + `\s+v?(\S+)`)
	prereleasePattern = regexp.MustCompile(regexp.QuoteMeta(KeywordPrerelease) + `\s+(\S+)`)
	labelPattern      = regexp.MustCompile(`^[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*$`)
)

// NoteRule maps note text to a command. Match returns the command kind and its
// argument, or false when the rule does not apply.
type NoteRule struct {
	Name  string
	Match func(note string) (CommandKind, string, bool)
}

func containsRule(name, keyword string, kind CommandKind) NoteRule {
	return NoteRule{
		Name: name,
		Match: func(note string) (CommandKind, string, bool) {
			return kind, "", strings.Contains(note, keyword)
		},
	}
}

func captureRule(name string, re *regexp.Regexp, kind CommandKind) NoteRule {
	return NoteRule{
		Name: name,
		Match: func(note string) (CommandKind, string, bool) {
			m := re.FindStringSubmatch(note)
			if m == nil {
				return 0, "", false
			}
			return kind, m[1], true
		},
	}
}

// NoteRules lists the note rules in priority order; the first match wins.
var NoteRules = []NoteRule{
	containsRule("major", KeywordMajor, IncMajor),
	containsRule("minor", KeywordMinor, IncMinor),
	captureRule("set version", setVersionPattern, SetVersion),
	captureRule("set prerelease", prereleasePattern, SetPrereleaseLabel),
	containsRule("release", KeywordRelease, ClearPrereleaseLabel),
	containsRule("manual patch", KeywordPatch, IncPatchManual),
}

// ResolveNote applies NoteRules to note text.
func ResolveNote(note string) (kind CommandKind, arg string, ok bool) {
	for _, rule := range NoteRules {
		if kind, arg, ok := rule.Match(note); ok {
			return kind, arg, true
		}
	}
	return 0, "", false
}

// Resolve turns a commit and its optional note into at most one command.
//
// An annotated commit resolves only through its note: a note that matches no
// rule yields no command, even on a merge. Without a note, a merge implies
// IncPatchFromMerge, a single-parent commit implies IncPatchFromLinearCommit and
// a root commit implies nothing.
func Resolve(c Commit, note string, hasNote bool) (Command, bool) {
	if hasNote {
		kind, arg, ok := ResolveNote(note)
		if !ok {
			return Command{}, false
		}
		return Command{Kind: kind, Arg: arg, Commit: c.ID}, true
	}

	switch {
	case len(c.Parents) > 1:
		return Command{Kind: IncPatchFromMerge, Commit: c.ID}, true
	case len(c.Parents) == 1:
		return Command{Kind: IncPatchFromLinearCommit, Commit: c.ID}, true
	}
	return Command{}, false
}

// NoteText returns the note written for a command, the inverse of ResolveNote.
func NoteText(kind CommandKind, arg string) string {
	switch kind {
	case IncMajor:
		return KeywordMajor
	case IncMinor:
		return KeywordMinor
	case SetVersion:
		return KeywordSet + " " + arg
	case SetPrereleaseLabel:
		return KeywordPrerelease + " " + arg
	case ClearPrereleaseLabel:
		return KeywordRelease
	case IncPatchManual:
		return KeywordPatch
	}
	return ""
}

// ValidLabel reports whether label is usable as a prerelease label.
func ValidLabel(label string) bool {
	return labelPattern.MatchString(label)
}
