package fewshot

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// FewShotPromptConfig configures a string-mode few-shot template.
// Exactly one of Examples or Selector must be set.
type FewShotPromptConfig struct {
	// ExamplePrompt renders one example into one fragment. Required.
	ExamplePrompt *PromptTemplate

	// Prefix is rendered once before the example fragments. Optional.
	Prefix *PromptTemplate

	// Suffix is rendered once after the example fragments. Optional.
	Suffix *PromptTemplate

	// Examples is the static ordered example pool.
	Examples []Example

	// Selector chooses examples dynamically per render.
	Selector ExampleSelector
}

// FewShotPromptTemplate renders a prefix, a selected sequence of example
// fragments, and a suffix into one flat prompt string. Instances are
// immutable after construction (Partial returns a new instance) and safe for
// concurrent renders.
type FewShotPromptTemplate struct {
	examplePrompt *PromptTemplate
	prefix        *PromptTemplate
	suffix        *PromptTemplate
	examples      []Example
	selector      ExampleSelector
	partials      map[string]Value
	separator     string
	logger        *zap.Logger
}

// NewFewShotPromptTemplate validates the configuration and builds the
// composite. Setting both Examples and Selector, or neither, is rejected
// here rather than at first render.
func NewFewShotPromptTemplate(cfg FewShotPromptConfig, opts ...Option) (*FewShotPromptTemplate, error) {
	if cfg.ExamplePrompt == nil {
		return nil, NewConfigError(ErrMsgNilExamplePrompt)
	}
	if cfg.Examples != nil && cfg.Selector != nil {
		return nil, NewConfigError(ErrMsgExamplesAndSelector)
	}
	if cfg.Examples == nil && cfg.Selector == nil {
		return nil, NewConfigError(ErrMsgNoExampleSource)
	}

	c := defaultConfig().apply(opts)
	return &FewShotPromptTemplate{
		examplePrompt: cfg.ExamplePrompt,
		prefix:        cfg.Prefix,
		suffix:        cfg.Suffix,
		examples:      copyExamples(cfg.Examples),
		selector:      cfg.Selector,
		partials:      map[string]Value{},
		separator:     c.separator,
		logger:        c.logger,
	}, nil
}

// Variables returns the variables the composite still requires at render
// time: the prefix's variables followed by the suffix's, deduplicated, minus
// any partial-bound names. Example-prompt variables are supplied by example
// fields and are not included.
func (p *FewShotPromptTemplate) Variables() []string {
	return unionVariables(p.partials, p.prefix, p.suffix)
}

// Partial returns a new composite with the given bindings fixed ahead of
// time, with the same semantics as PromptTemplate.Partial. Bindable names
// are the prefix's, suffix's, and example prompt's unbound variables;
// bound example-prompt variables take precedence over example fields.
func (p *FewShotPromptTemplate) Partial(bindings map[string]any) (*FewShotPromptTemplate, error) {
	declared := unionVariables(p.partials, p.prefix, p.suffix, p.examplePrompt)
	partials, err := mergePartials(p.partials, declared, bindings)
	if err != nil {
		return nil, err
	}

	clone := *p
	clone.partials = partials
	return &clone, nil
}

// Format renders the composite into one flat string: prefix, selected example
// fragments, then suffix, joined by the configured separator with empty
// segments skipped. Every still-required variable must be present in inputs.
func (p *FewShotPromptTemplate) Format(ctx context.Context, inputs map[string]any) (string, error) {
	resolved, err := p.resolveInputs(ctx, inputs)
	if err != nil {
		return "", err
	}

	selected, err := p.selectExamples(resolved)
	if err != nil {
		return "", err
	}
	p.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldExamples, len(selected)))

	pieces := make([]string, 0, len(selected)+2)

	if p.prefix != nil {
		prefix, err := p.prefix.Format(ctx, anyValues(resolved))
		if err != nil {
			return "", err
		}
		pieces = append(pieces, prefix)
	}

	for _, example := range selected {
		fragment, err := p.examplePrompt.Format(ctx, p.exampleInputs(example, resolved))
		if err != nil {
			return "", err
		}
		pieces = append(pieces, fragment)
	}

	if p.suffix != nil {
		suffix, err := p.suffix.Format(ctx, anyValues(resolved))
		if err != nil {
			return "", err
		}
		pieces = append(pieces, suffix)
	}

	out := joinNonEmpty(pieces, p.separator)
	p.logger.Debug(LogMsgRenderComplete, zap.Int(LogFieldLength, len(out)))
	return out, nil
}

// resolveInputs checks that every still-required variable is present, then
// resolves partials and inputs fan-out/fan-in into final strings.
func (p *FewShotPromptTemplate) resolveInputs(ctx context.Context, inputs map[string]any) (map[string]string, error) {
	values := make(map[string]Value, len(p.partials)+len(inputs))
	for name, v := range p.partials {
		values[name] = v
	}
	for _, name := range p.Variables() {
		raw, ok := inputs[name]
		if !ok {
			return nil, NewMissingVariableError(name)
		}
		v, err := valueFrom(name, raw)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return resolveAll(ctx, values)
}

// exampleInputs merges one example's fields with the composite's resolved
// partial bindings. Partial bindings take precedence: a bound name is fixed
// for every example.
func (p *FewShotPromptTemplate) exampleInputs(example Example, resolved map[string]string) map[string]any {
	inputs := example.inputs()
	for name := range p.partials {
		inputs[name] = resolved[name]
	}
	return inputs
}

// selectExamples narrows the pool through the selector, or returns the
// static pool when one was configured.
func (p *FewShotPromptTemplate) selectExamples(resolved map[string]string) ([]Example, error) {
	if p.selector == nil {
		return p.examples, nil
	}
	return p.selector.SelectExamples(resolved)
}

// unionVariables collects the still-required variables of the given
// templates in order, deduplicated, excluding partial-bound names.
func unionVariables(partials map[string]Value, templates ...*PromptTemplate) []string {
	var names []string
	seen := map[string]bool{}
	for _, t := range templates {
		if t == nil {
			continue
		}
		for _, name := range t.Variables() {
			if seen[name] {
				continue
			}
			if _, bound := partials[name]; bound {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// mergePartials validates bindings against the declared set and returns the
// merged partial map. Shared by both composite types.
func mergePartials(existing map[string]Value, declared []string, bindings map[string]any) (map[string]Value, error) {
	declaredSet := make(map[string]bool, len(declared))
	for _, name := range declared {
		declaredSet[name] = true
	}

	merged := make(map[string]Value, len(existing)+len(bindings))
	for name, v := range existing {
		merged[name] = v
	}
	for _, name := range sortedKeys(bindings) {
		if _, bound := existing[name]; bound {
			return nil, NewDuplicatePartialVariableError(name)
		}
		if !declaredSet[name] {
			return nil, NewUnknownPartialVariableError(name)
		}
		v, err := valueFrom(name, bindings[name])
		if err != nil {
			return nil, err
		}
		merged[name] = v
	}
	return merged, nil
}

// anyValues widens resolved strings for template formatting.
func anyValues(resolved map[string]string) map[string]any {
	out := make(map[string]any, len(resolved))
	for k, v := range resolved {
		out[k] = v
	}
	return out
}

// joinNonEmpty joins the non-empty pieces with the separator.
func joinNonEmpty(pieces []string, separator string) string {
	kept := pieces[:0:0]
	for _, piece := range pieces {
		if piece != "" {
			kept = append(kept, piece)
		}
	}
	return strings.Join(kept, separator)
}
