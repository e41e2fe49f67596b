package fewshot

import "sort"

// Example is one input/output demonstration pair, keyed by field name.
// Pools are plain ordered slices; duplicates are permitted and an example has
// no identity beyond its position.
type Example map[string]string

// inputs widens the example's fields for template formatting.
func (e Example) inputs() map[string]any {
	out := make(map[string]any, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// copyExample returns an independent copy of an example.
func copyExample(e Example) Example {
	out := make(Example, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// copyExamples returns an independent copy of a pool, preserving order.
func copyExamples(pool []Example) []Example {
	out := make([]Example, len(pool))
	for i, e := range pool {
		out[i] = copyExample(e)
	}
	return out
}

// ExampleSelector chooses an ordered subset of a candidate example pool for
// one render. Implementations must be deterministic for a fixed pool, policy
// configuration, and input variables, must never return more examples than
// the pool contains, and must honor their policy's hard constraint even when
// that means returning zero examples.
type ExampleSelector interface {
	SelectExamples(inputs map[string]string) ([]Example, error)
}

// joinInputValues concatenates input values in key order, space-separated.
// Used by selectors that measure the non-example portion of a render.
func joinInputValues(inputs map[string]string) string {
	if len(inputs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	joined := ""
	for i, k := range keys {
		if i > 0 {
			joined += " "
		}
		joined += inputs[k]
	}
	return joined
}
