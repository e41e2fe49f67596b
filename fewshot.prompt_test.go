package fewshot

import (
	"context"
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFewShotPromptTemplate_Validation(t *testing.T) {
	examplePrompt := MustFromTemplate("Human: {input}\nAI: {output}")

	t.Run("nil example prompt", func(t *testing.T) {
		_, err := NewFewShotPromptTemplate(FewShotPromptConfig{Examples: qaPool()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNilExamplePrompt)
	})

	t.Run("both examples and selector", func(t *testing.T) {
		selector, err := NewLengthBasedExampleSelector(qaPool(), examplePrompt, 10)
		require.NoError(t, err)

		_, err = NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Examples:      qaPool(),
			Selector:      selector,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgExamplesAndSelector)
	})

	t.Run("neither examples nor selector", func(t *testing.T) {
		_, err := NewFewShotPromptTemplate(FewShotPromptConfig{ExamplePrompt: examplePrompt})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNoExampleSource)
	})

	t.Run("empty static pool is allowed", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Examples:      []Example{},
		})
		require.NoError(t, err)

		out, err := prompt.Format(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "", out)
	})
}

func TestFewShotPromptTemplate_Format(t *testing.T) {
	ctx := context.Background()
	examplePrompt := MustFromTemplate("Human: {input}\nAI: {output}")

	t.Run("examples only, no prefix or suffix", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Examples: []Example{
				{"input": "A?", "output": "a"},
				{"input": "B?", "output": "b"},
			},
		})
		require.NoError(t, err)

		out, err := prompt.Format(ctx, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "Human: A?\nAI: a\n\nHuman: B?\nAI: b", out)
	})

	t.Run("prefix and suffix wrap the examples", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Prefix:        MustFromTemplate("Answer in the style shown."),
			Suffix:        MustFromTemplate("Human: {question}\nAI:"),
			Examples:      []Example{{"input": "A?", "output": "a"}},
		})
		require.NoError(t, err)

		out, err := prompt.Format(ctx, map[string]any{"question": "B?"})
		require.NoError(t, err)
		assert.Equal(t, "Answer in the style shown.\n\nHuman: A?\nAI: a\n\nHuman: B?\nAI:", out)
	})

	t.Run("custom separator", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Examples: []Example{
				{"input": "A?", "output": "a"},
				{"input": "B?", "output": "b"},
			},
		}, WithExampleSeparator("\n---\n"))
		require.NoError(t, err)

		out, err := prompt.Format(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "Human: A?\nAI: a\n---\nHuman: B?\nAI: b", out)
	})

	t.Run("selector narrows the pool per render", func(t *testing.T) {
		selector, err := NewLengthBasedExampleSelector(qaPool(), examplePrompt, 8)
		require.NoError(t, err)

		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Suffix:        MustFromTemplate("Human: {question}\nAI:"),
			Selector:      selector,
		})
		require.NoError(t, err)

		// The suffix inputs count against the selector budget: "D?" is one
		// word, leaving room for one 4-word example.
		out, err := prompt.Format(ctx, map[string]any{"question": "D?"})
		require.NoError(t, err)
		assert.Equal(t, "Human: A?\nAI: a\n\nHuman: D?\nAI:", out)
	})

	t.Run("selector budget can exclude all examples", func(t *testing.T) {
		selector, err := NewLengthBasedExampleSelector(qaPool(), examplePrompt, 2)
		require.NoError(t, err)

		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Suffix:        MustFromTemplate("{question}"),
			Selector:      selector,
		})
		require.NoError(t, err)

		out, err := prompt.Format(ctx, map[string]any{"question": "D?"})
		require.NoError(t, err)
		assert.Equal(t, "D?", out)
	})

	t.Run("missing required variable", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Suffix:        MustFromTemplate("Human: {question}\nAI:"),
			Examples:      []Example{{"input": "A?", "output": "a"}},
		})
		require.NoError(t, err)

		_, err = prompt.Format(ctx, map[string]any{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgMissingVariable)

		var customErr *cuserr.CustomError
		require.True(t, errors.As(err, &customErr))
		variable, ok := customErr.GetMetadata(MetaKeyVariable)
		assert.True(t, ok)
		assert.Equal(t, "question", variable)
	})

	t.Run("producer input feeds prefix and suffix", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Prefix:        MustFromTemplate("Audience: {audience}"),
			Suffix:        MustFromTemplate("For {audience}: {question}"),
			Examples:      []Example{},
		})
		require.NoError(t, err)

		out, err := prompt.Format(ctx, map[string]any{
			"audience": func() (string, error) { return "students", nil },
			"question": "B?",
		})
		require.NoError(t, err)
		assert.Equal(t, "Audience: students\n\nFor students: B?", out)
	})
}

func TestFewShotPromptTemplate_Variables(t *testing.T) {
	prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
		ExamplePrompt: MustFromTemplate("Human: {input}\nAI: {output}"),
		Prefix:        MustFromTemplate("Context: {context}"),
		Suffix:        MustFromTemplate("{context} {question}"),
		Examples:      []Example{},
	})
	require.NoError(t, err)

	// Example-prompt variables come from example fields, not caller inputs.
	assert.Equal(t, []string{"context", "question"}, prompt.Variables())
}

func TestFewShotPromptTemplate_Partial(t *testing.T) {
	ctx := context.Background()
	examplePrompt := MustFromTemplate("Human: {input}\nAI: {output}")

	t.Run("binds prefix and suffix variables", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Prefix:        MustFromTemplate("Audience: {audience}"),
			Suffix:        MustFromTemplate("Human: {question}\nAI:"),
			Examples:      []Example{{"input": "A?", "output": "a"}},
		})
		require.NoError(t, err)

		bound, err := prompt.Partial(map[string]any{"audience": "students"})
		require.NoError(t, err)
		assert.Equal(t, []string{"question"}, bound.Variables())
		assert.Equal(t, []string{"audience", "question"}, prompt.Variables(), "receiver must not mutate")

		out, err := bound.Format(ctx, map[string]any{"question": "B?"})
		require.NoError(t, err)
		assert.Equal(t, "Audience: students\n\nHuman: A?\nAI: a\n\nHuman: B?\nAI:", out)
	})

	t.Run("binds example prompt variables across every example", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: MustFromTemplate("[{tone}] {input} -> {output}"),
			Examples: []Example{
				{"input": "A?", "output": "a"},
				{"input": "B?", "output": "b"},
			},
		})
		require.NoError(t, err)

		bound, err := prompt.Partial(map[string]any{"tone": "formal"})
		require.NoError(t, err)

		out, err := bound.Format(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "[formal] A? -> a\n\n[formal] B? -> b", out)
	})

	t.Run("duplicate binding rejected", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Suffix:        MustFromTemplate("{question}"),
			Examples:      []Example{},
		})
		require.NoError(t, err)

		bound, err := prompt.Partial(map[string]any{"question": "fixed"})
		require.NoError(t, err)
		_, err = bound.Partial(map[string]any{"question": "again"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgDuplicatePartialVariable)
	})

	t.Run("unknown binding rejected", func(t *testing.T) {
		prompt, err := NewFewShotPromptTemplate(FewShotPromptConfig{
			ExamplePrompt: examplePrompt,
			Examples:      []Example{},
		})
		require.NoError(t, err)

		_, err = prompt.Partial(map[string]any{"stranger": "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnknownPartialVariable)
	})
}
