package fewshot

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadataOf(t *testing.T, err error, key string) string {
	t.Helper()
	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	value, ok := customErr.GetMetadata(key)
	require.True(t, ok, "metadata key %q missing", key)
	return value
}

func TestPosition(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		pos := Position{Offset: 12, Line: 2, Column: 5}
		assert.Equal(t, "line 2, column 5", pos.String())
	})

	t.Run("offset on first line", func(t *testing.T) {
		pos := positionAt("hello {name}", 6)
		assert.Equal(t, Position{Offset: 6, Line: 1, Column: 7}, pos)
	})

	t.Run("offset after newline", func(t *testing.T) {
		pos := positionAt("line one\n{x", 9)
		assert.Equal(t, Position{Offset: 9, Line: 2, Column: 1}, pos)
	})

	t.Run("offset zero", func(t *testing.T) {
		assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, positionAt("anything", 0))
	})
}

func TestErrorConstructors(t *testing.T) {
	t.Run("malformed template carries the position", func(t *testing.T) {
		err := NewMalformedTemplateError(ErrMsgUnbalancedOpen, Position{Offset: 4, Line: 1, Column: 5})
		assert.Contains(t, err.Error(), ErrMsgUnbalancedOpen)
		assert.Equal(t, "1", metadataOf(t, err, MetaKeyLine))
		assert.Equal(t, "5", metadataOf(t, err, MetaKeyColumn))
		assert.Equal(t, "4", metadataOf(t, err, MetaKeyOffset))
	})

	t.Run("invalid placeholder names the offender", func(t *testing.T) {
		err := NewInvalidPlaceholderError(ErrMsgInvalidPlaceholder, "9lives", Position{Line: 1, Column: 2})
		assert.Equal(t, "9lives", metadataOf(t, err, MetaKeyVariable))
	})

	t.Run("missing variable", func(t *testing.T) {
		err := NewMissingVariableError("question")
		assert.Contains(t, err.Error(), ErrMsgMissingVariable)
		assert.Equal(t, "question", metadataOf(t, err, MetaKeyVariable))
	})

	t.Run("invalid value records the Go type", func(t *testing.T) {
		err := NewInvalidValueError("count", 3.14)
		assert.Equal(t, "count", metadataOf(t, err, MetaKeyVariable))
		assert.Equal(t, "float64", metadataOf(t, err, MetaKeyValue))
	})

	t.Run("definition error keeps the cause and path", func(t *testing.T) {
		cause := errors.New("yaml exploded")
		err := NewDefinitionError(ErrMsgDefinitionInvalid, "/tmp/p.yaml", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "/tmp/p.yaml", metadataOf(t, err, MetaKeyPath))
	})

	t.Run("definition error without cause or path", func(t *testing.T) {
		err := NewDefinitionError(ErrMsgDefinitionNoName, "", nil)
		assert.Contains(t, err.Error(), ErrMsgDefinitionNoName)
	})

	t.Run("chain stage error wraps the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewChainStageError(ChainStageExecute, cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, ChainStageExecute, metadataOf(t, err, MetaKeyStage))
	})
}
