package semnote

import (
	"bytes"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// StampOptions selects the files Stamp writes a derived version into.
type StampOptions struct {
	VersionFile string   // Go file declaring Version = "..."; empty skips it
	BumpFiles   []string // other files whose main version string is replaced
	GoModDir    string   // directory searched upward for go.mod; empty skips go.mod
	DryRun      bool
}

// StampMeta reports what Stamp changed (or would change in a dry run).
type StampMeta struct {
	OldVersion   string // version found in VersionFile before stamping, if any
	NewVersion   string
	Downgrade    bool // NewVersion sorts below OldVersion
	UpdatedFiles []string
}

// Stamp writes v into the files named by opts.
func Stamp(v Version, opts StampOptions) (StampMeta, error) {
	meta := StampMeta{NewVersion: v.String()}

	if opts.VersionFile != "" {
		old, err := readVersionFile(opts.VersionFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return meta, err
		}
		meta.OldVersion = old
		if old != "" {
			if prev, err := ParseVersion(old); err == nil && v.Compare(prev) < 0 {
				meta.Downgrade = true
			}
		}
		if old != meta.NewVersion {
			if !opts.DryRun {
				if err := writeVersionFile(opts.VersionFile, meta.NewVersion); err != nil {
					return meta, err
				}
			}
			meta.UpdatedFiles = append(meta.UpdatedFiles, opts.VersionFile)
		}
	}

	if opts.GoModDir != "" {
		modDir, err := locateGoModDir(opts.GoModDir)
		if err != nil {
			return meta, fmt.Errorf("locating go.mod from %s: %w", opts.GoModDir, err)
		}
		changed, err := updateGoMod(modDir, meta.NewVersion, opts.DryRun)
		if err != nil {
			return meta, err
		}
		if changed {
			meta.UpdatedFiles = append(meta.UpdatedFiles, filepath.Join(modDir, "go.mod"))
		}
	}

	for _, bf := range opts.BumpFiles {
		changed, err := stampFile(bf, meta.NewVersion, opts.DryRun)
		if err != nil {
			return meta, fmt.Errorf("stamping %s: %w", bf, err)
		}
		if changed {
			meta.UpdatedFiles = append(meta.UpdatedFiles, bf)
		}
	}
	return meta, nil
}

var versionDeclPattern = regexp.MustCompile(`Version\s*=\s*"([^"]+)"`)

// readVersionFile extracts the Version string from a Go version file.
func readVersionFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if m := versionDeclPattern.FindSubmatch(data); m != nil {
		return string(m[1]), nil
	}
	return "", fmt.Errorf("no version declaration in %s", path)
}

// determinePackageName returns the package name for a version file: the one
// declared in the file itself, else the first non-test Go file in its
// directory, else "version".
func determinePackageName(path string) string {
	if data, err := os.ReadFile(path); err == nil {
		re := regexp.MustCompile(`(?m)^package\s+(\w+)`)
		if m := re.FindSubmatch(data); m != nil {
			return string(m[1])
		}
	}

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "version"
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err == nil {
			return f.Name.Name
		}
	}
	return "version"
}

// writeVersionFile writes (or creates) a Go file declaring Version.
func writeVersionFile(path, version string) error {
	content := fmt.Sprintf(`package %s

var (
	Version = "%s"
)
`, determinePackageName(path), version)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %q: %v", filepath.Dir(path), err)
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// locateGoModDir walks up from startDir until it finds go.mod.
func locateGoModDir(startDir string) (string, error) {
	d, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", os.ErrNotExist
		}
		d = parent
	}
}

// updateGoMod points the module path at the major version suffix required
// by version ("/vN" for N >= 2, none below).
func updateGoMod(modDir, version string, dryRun bool) (bool, error) {
	modPath := filepath.Join(modDir, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return false, fmt.Errorf("reading go.mod: %w", err)
	}
	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return false, fmt.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil {
		return false, fmt.Errorf("module directive not found")
	}

	basePath, _, ok := module.SplitPathVersion(f.Module.Mod.Path)
	if !ok {
		return false, fmt.Errorf("invalid module path %q", f.Module.Mod.Path)
	}
	newPath := basePath
	if maj := semver.Major("v" + version); maj != "v0" && maj != "v1" {
		newPath = basePath + "/" + maj
	}
	if newPath == f.Module.Mod.Path {
		return false, nil
	}
	if dryRun {
		return true, nil
	}

	if err := f.AddModuleStmt(newPath); err != nil {
		return false, fmt.Errorf("updating module path: %w", err)
	}
	out, err := f.Format()
	if err != nil {
		return false, fmt.Errorf("formatting go.mod: %w", err)
	}
	if err := os.WriteFile(modPath, out, 0644); err != nil {
		return false, fmt.Errorf("writing go.mod: %w", err)
	}
	return true, nil
}

// mainVersionPatterns find the primary version of common manifest formats.
// Group 1 is the prefix kept as is, group 2 the version.
var mainVersionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(\s{0,2}"version"\s*:\s*"v?)(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)`),
	regexp.MustCompile(`(?m)^(\s*version\s*=\s*"v?)(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)`),
	regexp.MustCompile(`(?mi)^(\s*VERSION\s*[:=]\s*["']?v?)(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)`),
}

// bareSemverPattern is the semver.org pattern without anchors.
var bareSemverPattern = regexp.MustCompile(`(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?`)

// stampFile replaces the main version in a file: the first manifest-style
// declaration, else the first semantic version not preceded by 'v'.
func stampFile(path, version string, dryRun bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read file: %w", err)
	}

	start, end := -1, -1
	for _, re := range mainVersionPatterns {
		if loc := re.FindSubmatchIndex(content); loc != nil {
			start, end = loc[4], loc[5]
			break
		}
	}
	if start < 0 {
		for _, loc := range bareSemverPattern.FindAllIndex(content, -1) {
			if loc[0] > 0 && (content[loc[0]-1] == 'v' || content[loc[0]-1] == 'V') {
				continue
			}
			start, end = loc[0], loc[1]
			break
		}
	}
	if start < 0 {
		return false, fmt.Errorf("no semantic version found in file")
	}
	if string(content[start:end]) == version {
		return false, nil
	}
	if dryRun {
		return true, nil
	}

	var out bytes.Buffer
	out.Write(content[:start])
	out.WriteString(version)
	out.Write(content[end:])
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("failed to write file: %w", err)
	}
	return true, nil
}
