package fewshot

import (
	"context"

	"go.uber.org/zap"
)

// Message is a role-tagged unit of conversational content, the shape a
// chat-oriented model client consumes.
type Message struct {
	// Role of the message sender: "human", "ai", or "system"
	Role string `yaml:"role" json:"role"`
	// Content of the message
	Content string `yaml:"content" json:"content"`
}

// MessageTemplate is one fixed message slot of a chat example prompt: a role
// and a content pattern rendered per example.
type MessageTemplate struct {
	Role    string
	Content *PromptTemplate
}

// NewMessageTemplate parses a content pattern into a MessageTemplate.
// The role must be one of RoleHuman, RoleAI, or RoleSystem.
func NewMessageTemplate(role, pattern string) (MessageTemplate, error) {
	if !validRole(role) {
		return MessageTemplate{}, NewInvalidRoleError(role)
	}
	content, err := FromTemplate(pattern)
	if err != nil {
		return MessageTemplate{}, err
	}
	return MessageTemplate{Role: role, Content: content}, nil
}

// MustNewMessageTemplate parses a content pattern and panics on error.
func MustNewMessageTemplate(role, pattern string) MessageTemplate {
	mt, err := NewMessageTemplate(role, pattern)
	if err != nil {
		panic(err)
	}
	return mt
}

func validRole(role string) bool {
	switch role {
	case RoleHuman, RoleAI, RoleSystem:
		return true
	}
	return false
}

// FewShotChatConfig configures a message-mode few-shot template.
// Exactly one of Examples or Selector must be set.
type FewShotChatConfig struct {
	// ExamplePrompt is the fixed, ordered sequence of message templates
	// rendered for each example. A one-element sequence produces the
	// combined single-record-per-example convention; a two-element
	// human/ai sequence produces two records per example. Required,
	// at least one entry.
	ExamplePrompt []MessageTemplate

	// Examples is the static ordered example pool.
	Examples []Example

	// Selector chooses examples dynamically per render.
	Selector ExampleSelector
}

// FewShotChatMessageTemplate renders selected examples into an ordered
// sequence of discrete message records. There is no prefix or suffix in this
// mode; leading or trailing instruction messages are the caller's to supply.
// Instances are immutable after construction and safe for concurrent
// renders.
type FewShotChatMessageTemplate struct {
	examplePrompt []MessageTemplate
	examples      []Example
	selector      ExampleSelector
	partials      map[string]Value
	logger        *zap.Logger
}

// NewFewShotChatMessageTemplate validates the configuration and builds the
// composite, rejecting both-set or neither-set example sources immediately.
func NewFewShotChatMessageTemplate(cfg FewShotChatConfig, opts ...Option) (*FewShotChatMessageTemplate, error) {
	if len(cfg.ExamplePrompt) == 0 {
		return nil, NewConfigError(ErrMsgEmptyExamplePrompt)
	}
	for _, mt := range cfg.ExamplePrompt {
		if !validRole(mt.Role) {
			return nil, NewInvalidRoleError(mt.Role)
		}
		if mt.Content == nil {
			return nil, NewConfigError(ErrMsgNilExamplePrompt)
		}
	}
	if cfg.Examples != nil && cfg.Selector != nil {
		return nil, NewConfigError(ErrMsgExamplesAndSelector)
	}
	if cfg.Examples == nil && cfg.Selector == nil {
		return nil, NewConfigError(ErrMsgNoExampleSource)
	}

	c := defaultConfig().apply(opts)
	examplePrompt := make([]MessageTemplate, len(cfg.ExamplePrompt))
	copy(examplePrompt, cfg.ExamplePrompt)

	return &FewShotChatMessageTemplate{
		examplePrompt: examplePrompt,
		examples:      copyExamples(cfg.Examples),
		selector:      cfg.Selector,
		partials:      map[string]Value{},
		logger:        c.logger,
	}, nil
}

// Variables returns the unbound variables of the message templates in
// first-appearance order. At render time these are supplied by example
// fields (or partial bindings), not by caller inputs.
func (t *FewShotChatMessageTemplate) Variables() []string {
	return unionVariables(t.partials, t.contentTemplates()...)
}

// Partial returns a new composite with the given bindings fixed ahead of
// time; bound names take precedence over example fields at render.
func (t *FewShotChatMessageTemplate) Partial(bindings map[string]any) (*FewShotChatMessageTemplate, error) {
	partials, err := mergePartials(t.partials, t.Variables(), bindings)
	if err != nil {
		return nil, err
	}

	clone := *t
	clone.partials = partials
	return &clone, nil
}

// FormatMessages renders every selected example through the fixed message
// templates and returns the records in order: all of example one's records,
// then example two's, and so on. Caller inputs feed example selection; an
// example field missing for a template variable fails with the
// missing-variable error naming it.
func (t *FewShotChatMessageTemplate) FormatMessages(ctx context.Context, inputs map[string]any) ([]Message, error) {
	resolved, err := t.resolveInputs(ctx, inputs)
	if err != nil {
		return nil, err
	}

	selected, err := t.selectExamples(resolved)
	if err != nil {
		return nil, err
	}
	t.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldExamples, len(selected)))

	messages := make([]Message, 0, len(selected)*len(t.examplePrompt))
	for _, example := range selected {
		exampleInputs := t.exampleInputs(example, resolved)
		for _, mt := range t.examplePrompt {
			content, err := mt.Content.Format(ctx, exampleInputs)
			if err != nil {
				return nil, err
			}
			messages = append(messages, Message{Role: mt.Role, Content: content})
		}
	}

	t.logger.Debug(LogMsgRenderComplete, zap.Int(LogFieldMessages, len(messages)))
	return messages, nil
}

// resolveInputs resolves partial bindings and whatever inputs the caller
// supplied; the resolved strings feed selection and partial precedence.
func (t *FewShotChatMessageTemplate) resolveInputs(ctx context.Context, inputs map[string]any) (map[string]string, error) {
	values := make(map[string]Value, len(t.partials)+len(inputs))
	for name, v := range t.partials {
		values[name] = v
	}
	for name, raw := range inputs {
		if _, bound := t.partials[name]; bound {
			continue
		}
		v, err := valueFrom(name, raw)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return resolveAll(ctx, values)
}

func (t *FewShotChatMessageTemplate) selectExamples(resolved map[string]string) ([]Example, error) {
	if t.selector == nil {
		return t.examples, nil
	}
	return t.selector.SelectExamples(resolved)
}

func (t *FewShotChatMessageTemplate) exampleInputs(example Example, resolved map[string]string) map[string]any {
	inputs := example.inputs()
	for name := range t.partials {
		inputs[name] = resolved[name]
	}
	return inputs
}

func (t *FewShotChatMessageTemplate) contentTemplates() []*PromptTemplate {
	templates := make([]*PromptTemplate, len(t.examplePrompt))
	for i, mt := range t.examplePrompt {
		templates[i] = mt.Content
	}
	return templates
}
