package fewshot

import (
	"errors"
	"os"

	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"
)

// PromptDefinition is the YAML-serializable form of a string-mode few-shot
// prompt. A definition always carries its example pool inline; when
// MaxLength is set, the pool is wrapped in a length-based selector instead
// of being used statically.
type PromptDefinition struct {
	// Name identifies the prompt, e.g. for registry lookups.
	Name string `yaml:"name"`

	// ExamplePrompt is the pattern rendering one example.
	ExamplePrompt string `yaml:"example_prompt"`

	// Prefix is rendered before the examples. Optional.
	Prefix string `yaml:"prefix,omitempty"`

	// Suffix is rendered after the examples. Optional.
	Suffix string `yaml:"suffix,omitempty"`

	// Separator between segments. Empty means the default.
	Separator string `yaml:"separator,omitempty"`

	// MaxLength, when positive, selects examples by cumulative word count.
	MaxLength int `yaml:"max_length,omitempty"`

	// Examples is the ordered example pool.
	Examples []Example `yaml:"examples"`
}

// ParsePromptDefinition unmarshals and validates a YAML prompt definition.
func ParsePromptDefinition(data []byte) (*PromptDefinition, error) {
	var def PromptDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, NewDefinitionError(ErrMsgDefinitionInvalid, "", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition's required fields.
func (d *PromptDefinition) Validate() error {
	if d.Name == "" {
		return NewDefinitionError(ErrMsgDefinitionNoName, "", nil)
	}
	if d.ExamplePrompt == "" {
		return NewDefinitionError(ErrMsgDefinitionNoPrompt, "", nil)
	}
	if d.MaxLength < 0 {
		return NewConfigError(ErrMsgNegativeMaxLength)
	}
	return nil
}

// Marshal serializes the definition back to YAML.
func (d *PromptDefinition) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Build compiles the definition into a ready FewShotPromptTemplate.
func (d *PromptDefinition) Build(opts ...Option) (*FewShotPromptTemplate, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	examplePrompt, err := FromTemplate(d.ExamplePrompt)
	if err != nil {
		return nil, err
	}

	cfg := FewShotPromptConfig{ExamplePrompt: examplePrompt}

	if d.Prefix != "" {
		if cfg.Prefix, err = FromTemplate(d.Prefix); err != nil {
			return nil, err
		}
	}
	if d.Suffix != "" {
		if cfg.Suffix, err = FromTemplate(d.Suffix); err != nil {
			return nil, err
		}
	}

	if d.MaxLength > 0 {
		selector, err := NewLengthBasedExampleSelector(d.Examples, examplePrompt, d.MaxLength)
		if err != nil {
			return nil, err
		}
		cfg.Selector = selector
	} else {
		examples := d.Examples
		if examples == nil {
			examples = []Example{}
		}
		cfg.Examples = examples
	}

	if d.Separator != "" {
		opts = append(opts, WithExampleSeparator(d.Separator))
	}
	return NewFewShotPromptTemplate(cfg, opts...)
}

// LoadPromptDefinition reads and parses a YAML prompt definition file.
// Parse and validation errors come back with the file path attached.
func LoadPromptDefinition(path string) (*PromptDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDefinitionError(ErrMsgDefinitionRead, path, err)
	}
	def, err := ParsePromptDefinition(data)
	if err != nil {
		var customErr *cuserr.CustomError
		if errors.As(err, &customErr) {
			return nil, customErr.WithMetadata(MetaKeyPath, path)
		}
		return nil, err
	}
	return def, nil
}

// LoadPromptFile reads a YAML definition file and compiles it.
func LoadPromptFile(path string, opts ...Option) (*FewShotPromptTemplate, error) {
	def, err := LoadPromptDefinition(path)
	if err != nil {
		return nil, err
	}
	return def.Build(opts...)
}
