// Package main implements the semnote CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	semnote "github.com/bcomnes/semnote/pkg"
)

type cliOptions struct {
	cfg   semnote.Config
	dir   string
	head  string
	force bool
}

func main() {
	cmd, err := newRootCmd()
	if err == nil {
		err = cmd.Execute()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() (*cobra.Command, error) {
	cfg, err := semnote.LoadConfig()
	if err != nil {
		return nil, err
	}
	opts := &cliOptions{cfg: cfg}

	root := &cobra.Command{
		Use:   "semnote",
		Short: "Derive a semantic version from git history and notes",
		Long: `semnote computes a semantic version by replaying the commit history reachable
from HEAD, oldest first. Merges and commits count as patch bumps depending on
the count method; git notes on individual commits bump major/minor/patch,
set an explicit version, or manage the prerelease label.

Running semnote without a command prints the derived version.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          opts.runGet,
	}
	root.SetVersionTemplate("semnote CLI version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.dir, "dir", "C", ".", "Path inside the git repository")
	pf.StringVar(&opts.head, "head", "HEAD", "Revision to derive the version at")
	pf.StringVar(&opts.cfg.Count, "count", cfg.Count, "Count method: merge, commit or manual (env SEMNOTE_COUNT)")
	pf.StringVar(&opts.cfg.NotesRef, "notes-ref", cfg.NotesRef, "Notes ref holding version notes (env SEMNOTE_NOTES_REF)")
	pf.StringVar(&opts.cfg.Remote, "remote", cfg.Remote, "Remote used by push and pull (env SEMNOTE_REMOTE)")
	pf.StringVar(&opts.cfg.Backend, "backend", cfg.Backend, "Read backend: exec or gogit (env SEMNOTE_BACKEND)")
	pf.StringVar(&opts.cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: none, debug, info, warn, error (env SEMNOTE_LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the derived version",
			Args:  cobra.NoArgs,
			RunE:  opts.runGet,
		},
		opts.noteCmd("major", "Bump the major version at HEAD", semnote.IncMajor),
		opts.noteCmd("minor", "Bump the minor version at HEAD", semnote.IncMinor),
		opts.noteCmd("patch", "Bump the patch version at HEAD (counted by commit and manual methods)", semnote.IncPatchManual),
		opts.noteCmd("release", "Clear the prerelease label at HEAD", semnote.ClearPrereleaseLabel),
		opts.withForce(&cobra.Command{
			Use:   "set <version>",
			Short: "Set an explicit version at HEAD",
			Args:  cobra.ExactArgs(1),
			RunE:  opts.runSet,
		}),
		opts.withForce(&cobra.Command{
			Use:   "pre <label>",
			Short: "Set the prerelease label at HEAD",
			Args:  cobra.ExactArgs(1),
			RunE:  opts.runPre,
		}),
		&cobra.Command{
			Use:   "unset",
			Short: "Remove the version note at HEAD",
			Args:  cobra.NoArgs,
			RunE:  opts.runUnset,
		},
		&cobra.Command{
			Use:   "push",
			Short: "Publish version notes to the remote",
			Args:  cobra.NoArgs,
			RunE:  opts.runPush,
		},
		&cobra.Command{
			Use:   "pull",
			Short: "Retrieve version notes from the remote",
			Args:  cobra.NoArgs,
			RunE:  opts.runPull,
		},
		opts.stampCmd(),
	)
	return root, nil
}

func (o *cliOptions) noteCmd(use, short string, kind semnote.CommandKind) *cobra.Command {
	return o.withForce(&cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.annotate(cmd, semnote.NoteText(kind, ""))
		},
	})
}

// withForce registers --force on a command that writes a note.
func (o *cliOptions) withForce(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().BoolVarP(&o.force, "force", "f", false, "Overwrite an existing note")
	return cmd
}

func (o *cliOptions) logger() (*zap.Logger, error) {
	return semnote.NewLogger(o.cfg.LogLevel)
}

func (o *cliOptions) derive() (semnote.Version, error) {
	method, err := o.cfg.CountMethod()
	if err != nil {
		return semnote.Version{}, err
	}
	logger, err := o.logger()
	if err != nil {
		return semnote.Version{}, err
	}
	defer logger.Sync() //nolint:errcheck

	graph, err := o.cfg.OpenGraph(o.dir, o.head)
	if err != nil {
		return semnote.Version{}, err
	}
	return semnote.NewEngine(graph, semnote.WithLogger(logger)).Derive(method)
}

func (o *cliOptions) runGet(cmd *cobra.Command, _ []string) error {
	v, err := o.derive()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func (o *cliOptions) repo() (*semnote.ExecRepository, error) {
	return semnote.NewExecRepository(o.dir, o.head, o.cfg.NotesRef)
}

func (o *cliOptions) annotate(cmd *cobra.Command, note string) error {
	repo, err := o.repo()
	if err != nil {
		return err
	}
	id, err := repo.ResolveHead()
	if err != nil {
		return err
	}
	if err := repo.Annotate(id, note, o.force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Noted %q on %s\n", note, id)
	return nil
}

func (o *cliOptions) runSet(cmd *cobra.Command, args []string) error {
	v, err := semnote.ParseVersion(args[0])
	if err != nil {
		return err
	}
	return o.annotate(cmd, semnote.NoteText(semnote.SetVersion, v.String()))
}

func (o *cliOptions) runPre(cmd *cobra.Command, args []string) error {
	if !semnote.ValidLabel(args[0]) {
		return fmt.Errorf("invalid prerelease label %q", args[0])
	}
	return o.annotate(cmd, semnote.NoteText(semnote.SetPrereleaseLabel, args[0]))
}

func (o *cliOptions) runUnset(cmd *cobra.Command, _ []string) error {
	repo, err := o.repo()
	if err != nil {
		return err
	}
	id, err := repo.ResolveHead()
	if err != nil {
		return err
	}
	if err := repo.RemoveAnnotation(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed note on %s\n", id)
	return nil
}

func (o *cliOptions) runPush(cmd *cobra.Command, _ []string) error {
	repo, err := o.repo()
	if err != nil {
		return err
	}
	if err := repo.PushNotes(o.cfg.Remote); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s to %s\n", o.cfg.NotesRef, o.cfg.Remote)
	return nil
}

func (o *cliOptions) runPull(cmd *cobra.Command, _ []string) error {
	repo, err := o.repo()
	if err != nil {
		return err
	}
	if err := repo.PullNotes(o.cfg.Remote); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s from %s\n", o.cfg.NotesRef, o.cfg.Remote)
	return nil
}

func (o *cliOptions) stampCmd() *cobra.Command {
	var stamp semnote.StampOptions
	var gomod bool
	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Write the derived version into project files",
		Long: `stamp writes the derived version into a Go version file, any number of
additional files (package.json, Cargo.toml, ...) and, with --gomod, the
module path of go.mod for v2+ versions. Nothing is committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := o.derive()
			if err != nil {
				return err
			}
			if gomod {
				stamp.GoModDir = o.dir
			}
			meta, err := semnote.Stamp(v, stamp)
			if err != nil {
				return err
			}
			return printStamp(cmd, meta, stamp.DryRun)
		},
	}
	f := cmd.Flags()
	f.StringVar(&stamp.VersionFile, "version-file", "", "Go file containing the version declaration")
	f.StringArrayVar(&stamp.BumpFiles, "bump-file", nil, "Additional file to scan for its main version and stamp. May be repeated.")
	f.BoolVar(&gomod, "gomod", false, "Update the go.mod module path for v2+ versions")
	f.BoolVar(&stamp.DryRun, "dry", false, "Report the files that would change without writing them")
	return cmd
}

func printStamp(cmd *cobra.Command, meta semnote.StampMeta, dryRun bool) error {
	out := cmd.OutOrStdout()
	if meta.Downgrade {
		fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("Warning:"),
			fmt.Sprintf("derived version %s is lower than %s", meta.NewVersion, meta.OldVersion))
	}
	if meta.OldVersion != "" {
		fmt.Fprintf(out, "Old Version: %s\n", meta.OldVersion)
	}
	fmt.Fprintf(out, "New Version: %s\n", meta.NewVersion)
	if len(meta.UpdatedFiles) == 0 {
		fmt.Fprintln(out, "Nothing to update.")
		return nil
	}
	if dryRun {
		fmt.Fprintln(out, "Files that would be updated:")
	} else {
		fmt.Fprintln(out, "Files updated:")
	}
	for _, f := range meta.UpdatedFiles {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}
