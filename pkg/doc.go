// Package semnote derives semantic versions from a commit history.
//
// A derivation walks the commits reachable from a head (newest first),
// resolves each commit into at most one Command, reverses the commands into
// chronological order and folds them into a Version starting at 0.0.0.
//
// A commit carrying a git note is resolved by the note text alone, using the
// first matching rule of NoteRules:
//
//	semnote:major          bump major
//	semnote:minor          bump minor
//	semnote:set 1.4.0-rc   set the version
//	semnote:pre beta       set the prerelease label
//	semnote:release        clear the prerelease label
//	semnote:patch          manual patch bump
//
// A commit without a note is a merge patch (several parents), a linear patch
// (one parent) or nothing (root). The CountMethod decides which patches count:
//
//	merge    merge patches
//	commit   linear patches and manual patches
//	manual   manual patches
//
// A major or minor bump suppresses the patch of the next merge, so merging a
// branch that carries a bump does not also bump the patch.
//
// Repositories are read through the CommitGraph interface. ExecRepository runs
// the git binary, GoGitRepository uses go-git, and MemoryGraph builds synthetic
// histories.
//
// Usage Example:
//
//	repo, err := semnote.NewExecRepository(".", "HEAD", semnote.DefaultNotesRef)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := semnote.Derive(repo, semnote.CountMerge)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v)
package semnote
