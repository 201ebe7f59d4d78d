package semnote

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Backend names accepted by Config.Backend.
const (
	BackendExec  = "exec"
	BackendGoGit = "gogit"
)

// Config holds settings read from the environment. Command-line flags
// override these values.
type Config struct {
	Count    string `env:"SEMNOTE_COUNT"     envDefault:"merge"`
	NotesRef string `env:"SEMNOTE_NOTES_REF" envDefault:"refs/notes/semnote"`
	Remote   string `env:"SEMNOTE_REMOTE"    envDefault:"origin"`
	Backend  string `env:"SEMNOTE_BACKEND"   envDefault:"exec"`
	LogLevel string `env:"SEMNOTE_LOG_LEVEL" envDefault:"none"`
}

// LoadConfig parses the SEMNOTE_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// CountMethod parses the configured count method.
func (c Config) CountMethod() (CountMethod, error) {
	return ParseCountMethod(c.Count)
}

// OpenGraph opens the configured backend on dir, walking from head.
func (c Config) OpenGraph(dir, head string) (CommitGraph, error) {
	switch c.Backend {
	case BackendExec, "":
		repo, err := NewExecRepository(dir, head, c.NotesRef)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case BackendGoGit:
		repo, err := OpenGoGitRepository(dir, head, c.NotesRef)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendExec, BackendGoGit)
}
