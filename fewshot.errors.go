package fewshot

import (
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Parse errors
	ErrMsgMalformedTemplate  = "malformed template pattern"
	ErrMsgUnbalancedOpen     = "unbalanced opening delimiter"
	ErrMsgUnbalancedClose    = "unbalanced closing delimiter"
	ErrMsgEmptyPlaceholder   = "placeholder name cannot be empty"
	ErrMsgInvalidPlaceholder = "placeholder name is not a valid identifier"

	// Render errors
	ErrMsgMissingVariable = "required variable missing"
	ErrMsgInvalidValue    = "unsupported variable value type"

	// Partial binding errors
	ErrMsgUnknownPartialVariable   = "partial binding for undeclared variable"
	ErrMsgDuplicatePartialVariable = "variable is already partial-bound"

	// Configuration errors
	ErrMsgNilExamplePrompt    = "example prompt is required"
	ErrMsgEmptyExamplePrompt  = "example prompt requires at least one message template"
	ErrMsgExamplesAndSelector = "examples and example selector are mutually exclusive"
	ErrMsgNoExampleSource     = "either examples or an example selector is required"
	ErrMsgInvalidRole         = "unknown message role"
	ErrMsgNegativeMaxLength   = "max length cannot be negative"
	ErrMsgNilTextLength       = "text length function cannot be nil"

	// Registry errors
	ErrMsgPromptExists     = "prompt already registered"
	ErrMsgPromptNotFound   = "prompt not found"
	ErrMsgEmptyPromptName  = "prompt name cannot be empty"
	ErrMsgRegistryClosed   = "registry is closed"
	ErrMsgWatchUnavailable = "directory watch is already active"

	// Prompt definition errors
	ErrMsgDefinitionInvalid  = "prompt definition is invalid"
	ErrMsgDefinitionRead     = "prompt definition could not be read"
	ErrMsgDefinitionNoPrompt = "prompt definition requires an example_prompt"
	ErrMsgDefinitionNoName   = "prompt definition requires a name"

	// Chain errors
	ErrMsgNilModel      = "model is required"
	ErrMsgNilGraphStore = "graph store is required"
	ErrMsgChainVariable = "chain template does not declare required variable"
	ErrMsgChainStage    = "chain stage failed"
)

// Position represents a location in a template pattern
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// positionAt computes the line/column position for a byte offset in pattern.
func positionAt(pattern string, offset int) Position {
	pos := Position{Offset: offset, Line: 1, Column: 1}
	for i, r := range pattern {
		if i >= offset {
			break
		}
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// NewMalformedTemplateError creates a parse error with position context.
// The message carries the general malformed-template prefix so callers can
// match the category without knowing the specific defect.
func NewMalformedTemplateError(msg string, pos Position) error {
	return cuserr.NewValidationError(ErrCodeParse, ErrMsgMalformedTemplate+": "+msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewInvalidPlaceholderError creates a parse error for a bad placeholder name,
// with the same malformed-template message prefix.
func NewInvalidPlaceholderError(msg, name string, pos Position) error {
	return cuserr.NewValidationError(ErrCodeParse, ErrMsgMalformedTemplate+": "+msg).
		WithMetadata(MetaKeyVariable, name).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewMissingVariableError creates an error for a variable absent at render time.
func NewMissingVariableError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyVariable, ErrMsgMissingVariable).
		WithMetadata(MetaKeyVariable, name)
}

// NewInvalidValueError creates an error for a value that is neither a string
// nor a supported producer function.
func NewInvalidValueError(name string, value any) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgInvalidValue).
		WithMetadata(MetaKeyVariable, name).
		WithMetadata(MetaKeyValue, fmt.Sprintf("%T", value))
}

// NewUnknownPartialVariableError creates a bind-time error for a binding whose
// key is not a declared variable of the receiver.
func NewUnknownPartialVariableError(name string) error {
	return cuserr.NewValidationError(ErrCodePartial, ErrMsgUnknownPartialVariable).
		WithMetadata(MetaKeyVariable, name)
}

// NewDuplicatePartialVariableError creates a bind-time error for binding a
// name that is already partial-bound.
func NewDuplicatePartialVariableError(name string) error {
	return cuserr.NewValidationError(ErrCodePartial, ErrMsgDuplicatePartialVariable).
		WithMetadata(MetaKeyVariable, name)
}

// NewConfigError creates a construction-time configuration error.
func NewConfigError(msg string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg)
}

// NewInvalidRoleError creates a construction-time error for an unknown role.
func NewInvalidRoleError(role string) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgInvalidRole).
		WithMetadata(MetaKeyRole, role)
}

// NewPromptExistsError creates a registry collision error.
func NewPromptExistsError(name string) error {
	return cuserr.NewValidationError(ErrCodeRegistry, ErrMsgPromptExists).
		WithMetadata(MetaKeyName, name)
}

// NewPromptNotFoundError creates an error for a prompt missing from a registry.
func NewPromptNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyName, ErrMsgPromptNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewDefinitionError creates an error for an invalid prompt definition.
func NewDefinitionError(msg string, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	if path != "" {
		err = err.WithMetadata(MetaKeyPath, path)
	}
	return err
}

// NewChainStageError wraps a collaborator failure with the stage it occurred in.
func NewChainStageError(stage string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeChain, ErrMsgChainStage).
		WithMetadata(MetaKeyStage, stage)
}

// NewChainVariableError creates a construction-time error for a chain template
// missing a required variable declaration.
func NewChainVariableError(name string) error {
	return cuserr.NewValidationError(ErrCodeChain, ErrMsgChainVariable).
		WithMetadata(MetaKeyVariable, name)
}
