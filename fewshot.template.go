package fewshot

import (
	"context"
	"sort"
	"strings"
)

// PromptTemplate is a parsed, immutable text pattern with named placeholders.
// It is safe to share a single instance across concurrent renders.
type PromptTemplate struct {
	pattern   string
	segments  []segment
	variables []string         // still-required names, first-appearance order
	partials  map[string]Value // bound names, resolved before caller inputs
}

// FromTemplate parses a pattern into a PromptTemplate. Placeholders use
// single-brace syntax ({name}); doubled braces render literal braces.
func FromTemplate(pattern string) (*PromptTemplate, error) {
	segments, names, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &PromptTemplate{
		pattern:   pattern,
		segments:  segments,
		variables: names,
		partials:  map[string]Value{},
	}, nil
}

// MustFromTemplate parses a pattern and panics on error.
func MustFromTemplate(pattern string) *PromptTemplate {
	t, err := FromTemplate(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

// Pattern returns the original pattern string.
func (t *PromptTemplate) Pattern() string {
	return t.pattern
}

// Variables returns the still-required variable names in first-appearance
// order. Partial-bound names are excluded.
func (t *PromptTemplate) Variables() []string {
	out := make([]string, len(t.variables))
	copy(out, t.variables)
	return out
}

// Partial returns a new template with the given bindings fixed ahead of time.
// Every key must be a currently-declared variable; binding a name twice
// across chained calls fails. The receiver is never mutated.
//
// Binding values may be literal strings, func() string,
// func() (string, error), func(context.Context) (string, error), or Value.
func (t *PromptTemplate) Partial(bindings map[string]any) (*PromptTemplate, error) {
	if len(bindings) == 0 {
		return t, nil
	}

	partials := make(map[string]Value, len(t.partials)+len(bindings))
	for name, v := range t.partials {
		partials[name] = v
	}

	declared := make(map[string]bool, len(t.variables))
	for _, name := range t.variables {
		declared[name] = true
	}

	for _, name := range sortedKeys(bindings) {
		if _, bound := t.partials[name]; bound {
			return nil, NewDuplicatePartialVariableError(name)
		}
		if !declared[name] {
			return nil, NewUnknownPartialVariableError(name)
		}
		v, err := valueFrom(name, bindings[name])
		if err != nil {
			return nil, err
		}
		partials[name] = v
	}

	remaining := make([]string, 0, len(t.variables))
	for _, name := range t.variables {
		if _, bound := partials[name]; !bound {
			remaining = append(remaining, name)
		}
	}

	return &PromptTemplate{
		pattern:   t.pattern,
		segments:  t.segments,
		variables: remaining,
		partials:  partials,
	}, nil
}

// Format resolves every variable and returns the rendered string.
// Partial bindings are consulted first; each remaining variable must be
// present in inputs. Producer-backed values resolve concurrently and the
// final assembly waits for all of them.
func (t *PromptTemplate) Format(ctx context.Context, inputs map[string]any) (string, error) {
	values := make(map[string]Value, len(t.partials)+len(t.variables))
	for name, v := range t.partials {
		values[name] = v
	}
	for _, name := range t.variables {
		raw, ok := inputs[name]
		if !ok {
			return "", NewMissingVariableError(name)
		}
		v, err := valueFrom(name, raw)
		if err != nil {
			return "", err
		}
		values[name] = v
	}

	resolved, err := resolveAll(ctx, values)
	if err != nil {
		return "", err
	}
	return t.expand(resolved)
}

// expand substitutes resolved values into the parsed segments.
func (t *PromptTemplate) expand(values map[string]string) (string, error) {
	var b strings.Builder
	for _, seg := range t.segments {
		if seg.name == "" {
			b.WriteString(seg.literal)
			continue
		}
		v, ok := values[seg.name]
		if !ok {
			return "", NewMissingVariableError(seg.name)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// sortedKeys returns map keys in sorted order for deterministic iteration.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
