package fewshot

import (
	"context"

	"go.uber.org/zap"
)

// LengthBasedExampleSelector selects the longest prefix of its candidate pool
// whose cumulative rendered length stays within a budget. Selection walks the
// pool in original order and terminates at the first example that would
// exceed the budget; later, shorter examples are not considered.
type LengthBasedExampleSelector struct {
	examples      []Example
	examplePrompt *PromptTemplate
	maxLength     int
	textLength    TextLengthFunc
	logger        *zap.Logger
}

// SelectorOption configures a LengthBasedExampleSelector.
type SelectorOption func(*LengthBasedExampleSelector)

// WithTextLength overrides the length measure.
// Default: WordCount
func WithTextLength(fn TextLengthFunc) SelectorOption {
	return func(s *LengthBasedExampleSelector) {
		s.textLength = fn
	}
}

// WithSelectorLogger sets the selector's logger.
// Default: zap.NewNop()
func WithSelectorLogger(logger *zap.Logger) SelectorOption {
	return func(s *LengthBasedExampleSelector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewLengthBasedExampleSelector creates a selector over the given pool.
// examplePrompt renders one example into the fragment whose length is
// measured; maxLength is the cumulative budget including the measured length
// of the caller's input values.
func NewLengthBasedExampleSelector(pool []Example, examplePrompt *PromptTemplate, maxLength int, opts ...SelectorOption) (*LengthBasedExampleSelector, error) {
	if examplePrompt == nil {
		return nil, NewConfigError(ErrMsgNilExamplePrompt)
	}
	if maxLength < 0 {
		return nil, NewConfigError(ErrMsgNegativeMaxLength)
	}

	s := &LengthBasedExampleSelector{
		examples:      copyExamples(pool),
		examplePrompt: examplePrompt,
		maxLength:     maxLength,
		textLength:    WordCount,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.textLength == nil {
		return nil, NewConfigError(ErrMsgNilTextLength)
	}
	return s, nil
}

// SelectExamples returns the accepted prefix of the pool, possibly empty.
// The running total starts at the measured length of the joined input values,
// then each example is rendered through the example prompt and accepted only
// while the budget holds. An empty selection is a valid outcome, not an
// error.
func (s *LengthBasedExampleSelector) SelectExamples(inputs map[string]string) ([]Example, error) {
	running := s.textLength(joinInputValues(inputs))

	selected := make([]Example, 0, len(s.examples))
	for _, example := range s.examples {
		rendered, err := s.examplePrompt.Format(context.Background(), example.inputs())
		if err != nil {
			return nil, err
		}
		length := s.textLength(rendered)
		if running+length > s.maxLength {
			break
		}
		running += length
		selected = append(selected, copyExample(example))
	}

	s.logger.Debug(LogMsgExamplesSelected,
		zap.Int(LogFieldExamples, len(selected)),
		zap.Int(LogFieldLength, running))
	return selected, nil
}

// AddExample appends an example to the candidate pool. Not safe to call
// concurrently with SelectExamples on the same instance; callers needing
// concurrent mutation must synchronize externally.
func (s *LengthBasedExampleSelector) AddExample(example Example) {
	s.examples = append(s.examples, copyExample(example))
}

// Examples returns a copy of the current candidate pool in order.
func (s *LengthBasedExampleSelector) Examples() []Example {
	return copyExamples(s.examples)
}
