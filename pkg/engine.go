package semnote

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Engine derives versions from a commit graph.
type Engine struct {
	graph  CommitGraph
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to trace a derivation.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine returns an Engine reading from graph.
func NewEngine(graph CommitGraph, opts ...Option) *Engine {
	e := &Engine{graph: graph, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive is a shorthand for NewEngine(graph).Derive(method).
func Derive(graph CommitGraph, method CountMethod) (Version, error) {
	return NewEngine(graph).Derive(method)
}

// Commands walks the graph and returns the resolved commands in chronological
// (oldest first) order.
func (e *Engine) Commands() ([]Command, error) {
	commits, err := e.graph.CommitsFromHead()
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, ErrNoCommits
	}

	cmds := make([]Command, 0, len(commits))
	for _, c := range commits {
		note, hasNote, err := e.graph.AnnotationOf(c.ID)
		if err != nil {
			var rae *RepositoryAccessError
			if !errors.As(err, &rae) {
				err = accessError("read note for "+c.ID, err)
			}
			return nil, err
		}
		cmd, ok := Resolve(c, note, hasNote)
		if !ok {
			e.logger.Debug("no command", zap.String("commit", c.ID), zap.Int("parents", len(c.Parents)))
			continue
		}
		e.logger.Debug("resolved command", zap.String("commit", c.ID), zap.Stringer("command", cmd))
		cmds = append(cmds, cmd)
	}

	slices.Reverse(cmds)
	return cmds, nil
}

// Derive computes the version at the head of the graph.
func (e *Engine) Derive(method CountMethod) (Version, error) {
	if !method.Valid() {
		return Version{}, fmt.Errorf("%w: %v", ErrInvalidCountMethod, method)
	}

	cmds, err := e.Commands()
	if err != nil {
		return Version{}, err
	}

	var onStep StepFunc
	if e.logger.Core().Enabled(zap.DebugLevel) {
		onStep = func(cmd Command, before, after FoldState) {
			if after.Version.Equal(before.Version) {
				return
			}
			e.logger.Debug("version changed",
				zap.String("commit", cmd.Commit),
				zap.Stringer("command", cmd),
				zap.Stringer("from", before.Version),
				zap.Stringer("to", after.Version))
		}
	}
	v, err := FoldFunc(cmds, method, onStep)
	if err != nil {
		return Version{}, err
	}

	e.logger.Info("derived version",
		zap.Stringer("version", v),
		zap.Stringer("count", method),
		zap.Int("commands", len(cmds)))
	return v, nil
}
