package topics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTopic(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestTopicManagerScanTopics(t *testing.T) {
	topicsDir := t.TempDir()

	writeTopic(t, topicsDir, "dry-run.txt", "Information about dry-run mode")
	writeTopic(t, topicsDir, "retention.md", "# Retention\n\nHow pruning keeps snapshots")
	writeTopic(t, topicsDir, "config.txxt", "Configuration Guide\n==================")
	writeTopic(t, topicsDir, "ignore.json", "This should be ignored")

	t.Run("default extensions", func(t *testing.T) {
		tm := New(topicsDir)
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("dry-run")
		require.True(t, exists)
		assert.Equal(t, "Information about dry-run mode", topic.Content)

		_, exists = tm.GetTopic("config")
		assert.False(t, exists, ".txxt is not a default extension")
		_, exists = tm.GetTopic("ignore")
		assert.False(t, exists)
	})

	t.Run("custom extensions", func(t *testing.T) {
		tm := NewWithOptions(topicsDir, Options{
			Extensions: []string{".txt", ".md", ".txxt"},
		})
		require.NoError(t, tm.scanTopics())

		topic, exists := tm.GetTopic("config")
		require.True(t, exists)
		assert.Equal(t, "Configuration Guide\n==================", topic.Content)
	})
}

func TestTopicManagerMissingDirectory(t *testing.T) {
	tm := New(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, tm.scanTopics())
	assert.Empty(t, tm.ListTopics())
}

func TestGetTopicFlagStyle(t *testing.T) {
	topicsDir := t.TempDir()
	writeTopic(t, topicsDir, "option-dry-run.txt", "Dry run details")

	tm := New(topicsDir)
	require.NoError(t, tm.scanTopics())

	// Flag spellings resolve to the option- prefixed topic
	for _, name := range []string{"--dry-run", "dry-run"} {
		topic, exists := tm.GetTopic(name)
		require.True(t, exists, name)
		assert.Equal(t, "Dry run details", topic.Content)
	}
}

func TestInitializeReplacesHelpCommand(t *testing.T) {
	topicsDir := t.TempDir()
	writeTopic(t, topicsDir, "retention.txt", "Keep the newest N snapshots")

	rootCmd := &cobra.Command{Use: "dotback"}
	require.NoError(t, Initialize(rootCmd, topicsDir))

	var helpCmd *cobra.Command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			helpCmd = cmd
		}
	}
	require.NotNil(t, helpCmd)
}

func TestPlainRendererPassthrough(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "raw", r.Render("raw", ".txt"))
}

func TestGlamourRendererNonMarkdownPassthrough(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
