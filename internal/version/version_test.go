package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildSettings(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "", ""
	fromBuildSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
	})
	assert.Equal(t, "0123456-dirty", Commit)
	assert.Equal(t, "dev-20260314", Version)
	assert.Equal(t, "dev-20260314 (commit: 0123456-dirty)", Full())
}

func TestFromBuildSettings_KeepsStampedValues(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v0.3.0", "abc1234"
	fromBuildSettings([]debug.BuildSetting{{Key: "vcs.revision", Value: "fffffffffff"}})
	assert.Equal(t, "v0.3.0", Version)
	assert.Equal(t, "abc1234", Commit)
}
