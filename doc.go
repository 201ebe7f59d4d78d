// Package main implements the semnote CLI tool.
//
// semnote derives a semantic version from the commit history of a git
// repository instead of a hand-edited version file. The history reachable from
// HEAD is replayed oldest first starting at 0.0.0. Commits without a note count
// as patch bumps according to the count method; commits with a note are bumped
// by the note alone.
//
// Command Usage:
//
//	semnote [flags] [command]
//
// Commands:
//
//	get            Print the derived version (default).
//	major, minor   Note a major or minor bump on HEAD.
//	patch          Note a manual patch bump on HEAD.
//	set <version>  Note an explicit version on HEAD.
//	pre <label>    Note a prerelease label on HEAD.
//	release        Note the removal of the prerelease label on HEAD.
//	unset          Remove the note on HEAD.
//	push, pull     Publish or retrieve the notes ref.
//	stamp          Write the derived version into project files.
//
// Flags:
//
//	-C, --dir:     Path inside the repository (default ".").
//	--head:        Revision to derive at (default "HEAD").
//	--count:       merge, commit or manual (env SEMNOTE_COUNT, default merge).
//	--notes-ref:   Notes ref (env SEMNOTE_NOTES_REF, default refs/notes/semnote).
//	--remote:      Remote for push and pull (env SEMNOTE_REMOTE, default origin).
//	--backend:     exec runs the git binary, gogit reads the repository with go-git
//	               (env SEMNOTE_BACKEND, default exec).
//	--log-level:   none, debug, info, warn or error (env SEMNOTE_LOG_LEVEL).
//
// Examples:
//
//	# Print the version at HEAD
//	semnote
//
//	# Count every commit instead of every merge
//	semnote --count commit
//
//	# Start the 2.0.0 line on the current feature branch
//	semnote major
//
//	# Cut a beta, then release it
//	semnote pre beta
//	semnote release
//
//	# Share notes with collaborators
//	semnote push
//
//	# Write the version into version.go and package.json
//	semnote stamp --version-file ./version.go --bump-file package.json
package main
