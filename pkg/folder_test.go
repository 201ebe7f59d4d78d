package semnote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cmd(kind CommandKind, arg ...string) Command {
	c := Command{Kind: kind, Commit: "c"}
	if len(arg) > 0 {
		c.Arg = arg[0]
	}
	return c
}

func TestFoldCountMethods(t *testing.T) {
	tests := []struct {
		name   string
		cmds   []Command
		merge  string
		commit string
		manual string
	}{
		{"empty", nil, "0.0.0", "0.0.0", "0.0.0"},
		{"merge patch", []Command{cmd(IncPatchFromMerge)}, "0.0.1", "0.0.0", "0.0.0"},
		{"linear patch", []Command{cmd(IncPatchFromLinearCommit)}, "0.0.0", "0.0.1", "0.0.0"},
		{"manual patch", []Command{cmd(IncPatchManual)}, "0.0.0", "0.0.1", "0.0.1"},
		{"major", []Command{cmd(IncMajor)}, "1.0.0", "1.0.0", "1.0.0"},
		{"minor", []Command{cmd(IncMinor)}, "0.1.0", "0.1.0", "0.1.0"},
		{
			"mixed",
			[]Command{
				cmd(IncPatchFromLinearCommit),
				cmd(IncPatchFromMerge),
				cmd(IncPatchManual),
				cmd(IncPatchFromLinearCommit),
				cmd(IncPatchFromMerge),
			},
			"0.0.2", "0.0.3", "0.0.1",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for method, want := range map[CountMethod]string{
				CountMerge:  tc.merge,
				CountCommit: tc.commit,
				CountManual: tc.manual,
			} {
				v, err := Fold(tc.cmds, method)
				require.NoError(t, err)
				assert.Equal(t, want, v.String(), "count method %s", method)
			}
		})
	}
}

func TestFoldSuppressesNextMergePatch(t *testing.T) {
	v, err := Fold([]Command{cmd(IncMinor), cmd(IncPatchFromMerge)}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", v.String())

	v, err = Fold([]Command{cmd(IncMajor), cmd(IncPatchFromMerge), cmd(IncPatchFromMerge)}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", v.String())
}

// The suppression is a flag, not a counter.
func TestFoldSuppressionIsNotCounted(t *testing.T) {
	v, err := Fold([]Command{
		cmd(IncMinor),
		cmd(IncMinor),
		cmd(IncPatchFromMerge),
		cmd(IncPatchFromMerge),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "0.2.1", v.String())
}

// Linear and manual patches neither consume nor clear the flag.
func TestFoldSuppressionSurvivesOtherPatches(t *testing.T) {
	v, err := Fold([]Command{
		cmd(IncMinor),
		cmd(IncPatchFromLinearCommit),
		cmd(IncPatchManual),
		cmd(IncPatchFromMerge),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", v.String())
}

// The flag is consumed by the merge even when merges are not counted.
func TestFoldSuppressionConsumedUnderCommitMethod(t *testing.T) {
	s, err := FoldState{}.Step(cmd(IncMajor), CountCommit)
	require.NoError(t, err)
	assert.True(t, s.SuppressNextMergePatch)

	s, err = s.Step(cmd(IncPatchFromMerge), CountCommit)
	require.NoError(t, err)
	assert.False(t, s.SuppressNextMergePatch)
	assert.Equal(t, "1.0.0", s.Version.String())
}

func TestFoldSetVersion(t *testing.T) {
	v, err := Fold([]Command{
		cmd(IncPatchFromMerge),
		cmd(SetVersion, "2.5.0-beta"),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "2.5.0-beta", v.String())
	assert.Equal(t, []string{"beta"}, v.Prerelease)

	v, err = Fold([]Command{
		cmd(SetVersion, "2.5.0-beta"),
		cmd(IncMinor),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "2.6.0", v.String())

	// SetVersion does not touch the suppression flag.
	v, err = Fold([]Command{
		cmd(IncMinor),
		cmd(SetVersion, "3.0.0"),
		cmd(IncPatchFromMerge),
		cmd(IncPatchFromMerge),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "3.0.1", v.String())
}

func TestFoldPrerelease(t *testing.T) {
	v, err := Fold([]Command{
		cmd(IncMinor),
		cmd(SetPrereleaseLabel, "alpha"),
		cmd(SetPrereleaseLabel, "beta"),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-beta", v.String())

	v, err = Fold([]Command{
		cmd(SetVersion, "1.0.0-rc.1"),
		cmd(ClearPrereleaseLabel),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.String())

	v, err = Fold([]Command{
		cmd(SetPrereleaseLabel, "beta"),
		cmd(IncPatchFromMerge),
	}, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, "0.0.1", v.String())
}

func TestFoldInvalidVersion(t *testing.T) {
	_, err := Fold([]Command{
		{Kind: IncMinor, Commit: "aaa"},
		{Kind: SetVersion, Arg: "01.2.3", Commit: "bbb"},
	}, CountMerge)
	require.ErrorIs(t, err, ErrInvalidVersion)
	var ive *InvalidVersionError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "bbb", ive.Commit)
	assert.Equal(t, "01.2.3", ive.Text)
	assert.Contains(t, err.Error(), "bbb")
}

func TestFoldInvalidCountMethod(t *testing.T) {
	_, err := Fold([]Command{cmd(IncMajor)}, CountMethod(42))
	assert.ErrorIs(t, err, ErrInvalidCountMethod)
}

func TestFoldFuncObservesEveryStep(t *testing.T) {
	cmds := []Command{
		cmd(IncMinor),
		cmd(IncPatchFromMerge),
		cmd(IncPatchFromLinearCommit),
		cmd(SetPrereleaseLabel, "rc"),
	}
	var seen []CommandKind
	var last FoldState
	v, err := FoldFunc(cmds, CountMerge, func(c Command, before, after FoldState) {
		assert.Equal(t, last, before)
		seen = append(seen, c.Kind)
		last = after
	})
	require.NoError(t, err)
	assert.Equal(t, "0.1.0-rc", v.String())
	assert.Equal(t, []CommandKind{IncMinor, IncPatchFromMerge, IncPatchFromLinearCommit, SetPrereleaseLabel}, seen)

	plain, err := Fold(cmds, CountMerge)
	require.NoError(t, err)
	assert.Equal(t, v, plain)
}

func TestFoldOverflow(t *testing.T) {
	const maxUint = "18446744073709551615"
	tests := []struct {
		set  string
		kind CommandKind
	}{
		{maxUint + ".0.0", IncMajor},
		{"0." + maxUint + ".0", IncMinor},
		{"0.0." + maxUint, IncPatchManual},
	}
	for _, tc := range tests {
		_, err := Fold([]Command{
			cmd(SetVersion, tc.set),
			{Kind: tc.kind, Commit: "ccc"},
		}, CountCommit)
		var ive *InvalidVersionError
		if assert.ErrorAs(t, err, &ive, tc.set) {
			assert.Equal(t, "ccc", ive.Commit)
			assert.Equal(t, tc.set, ive.Text)
		}
	}
}

func TestFoldInvalidPrereleaseLabel(t *testing.T) {
	_, err := Fold([]Command{{Kind: SetPrereleaseLabel, Arg: "beta_1", Commit: "ddd"}}, CountMerge)
	var ive *InvalidVersionError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "ddd", ive.Commit)
	assert.Equal(t, "beta_1", ive.Text)
}
