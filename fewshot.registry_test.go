package fewshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrompt(t *testing.T) *FewShotPromptTemplate {
	t.Helper()
	prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
		ExamplePrompt: MustFromTemplate("Human: {input}\nAI: {output}"),
		Examples:      []Example{{"input": "A?", "output": "a"}},
	})
	require.NoError(t, err)
	return prompt
}

func TestRegistry_RegisterGetRemove(t *testing.T) {
	registry := NewRegistry()

	t.Run("register and get", func(t *testing.T) {
		prompt := testPrompt(t)
		require.NoError(t, registry.Register("qa", prompt))

		got, err := registry.Get("qa")
		require.NoError(t, err)
		assert.Same(t, prompt, got)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := registry.Register("", testPrompt(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgEmptyPromptName)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := registry.Register("qa", testPrompt(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgPromptExists)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := registry.Get("missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgPromptNotFound)
	})

	t.Run("names are sorted", func(t *testing.T) {
		require.NoError(t, registry.Register("alpha", testPrompt(t)))
		require.NoError(t, registry.Register("zeta", testPrompt(t)))
		assert.Equal(t, []string{"alpha", "qa", "zeta"}, registry.Names())
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, registry.Remove("qa"))
		_, err := registry.Get("qa")
		require.Error(t, err)

		err = registry.Remove("qa")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgPromptNotFound)
	})
}

func TestRegistry_LoadDir(t *testing.T) {
	t.Run("loads every definition file", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinitionFile(t, dir, "letter-qa.yaml", testDefinitionYAML)
		writeDefinitionFile(t, dir, "other.yml", "name: other\nexample_prompt: \"{input}\"\nexamples: []\n")
		writeDefinitionFile(t, dir, "notes.txt", "not a definition")

		registry := NewRegistry()
		require.NoError(t, registry.LoadDir(dir))
		assert.Equal(t, []string{"letter-qa", "other"}, registry.Names())
	})

	t.Run("reload replaces by name", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinitionFile(t, dir, "letter-qa.yaml", testDefinitionYAML)

		registry := NewRegistry()
		require.NoError(t, registry.LoadDir(dir))
		require.NoError(t, registry.LoadDir(dir))
		assert.Equal(t, []string{"letter-qa"}, registry.Names())
	})

	t.Run("missing directory", func(t *testing.T) {
		registry := NewRegistry()
		err := registry.LoadDir(filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgDefinitionRead)
	})

	t.Run("invalid definition aborts the load", func(t *testing.T) {
		dir := t.TempDir()
		writeDefinitionFile(t, dir, "bad.yaml", "name: [unclosed")

		registry := NewRegistry()
		err := registry.LoadDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgDefinitionInvalid)
	})
}

func TestRegistry_Watch(t *testing.T) {
	dir := t.TempDir()
	registry := NewRegistry()
	defer registry.Close()

	require.NoError(t, registry.Watch(dir))

	t.Run("second watch rejected", func(t *testing.T) {
		err := registry.Watch(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgWatchUnavailable)
	})

	t.Run("new file is picked up", func(t *testing.T) {
		writeDefinitionFile(t, dir, "letter-qa.yaml", testDefinitionYAML)

		require.Eventually(t, func() bool {
			_, err := registry.Get("letter-qa")
			return err == nil
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("removed file drops the prompt", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(dir, "letter-qa.yaml")))

		require.Eventually(t, func() bool {
			_, err := registry.Get("letter-qa")
			return err != nil
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestRegistry_WatchCloseWhileEventsArrive(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 20; i++ {
		registry := NewRegistry()
		require.NoError(t, registry.Watch(dir))
		writeDefinitionFile(t, dir, "letter-qa.yaml", testDefinitionYAML)
		require.NoError(t, registry.Close())
	}
}

func TestRegistry_Close(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("qa", testPrompt(t)))
	require.NoError(t, registry.Close())

	t.Run("writes rejected after close", func(t *testing.T) {
		err := registry.Register("late", testPrompt(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgRegistryClosed)

		err = registry.Watch(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgRegistryClosed)

		err = registry.Remove("qa")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgRegistryClosed)
	})

	t.Run("reads keep working", func(t *testing.T) {
		got, err := registry.Get("qa")
		require.NoError(t, err)
		require.NotNil(t, got)

		out, err := got.Format(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "Human: A?\nAI: a", out)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		require.NoError(t, registry.Close())
	})
}
