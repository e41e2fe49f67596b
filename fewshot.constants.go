package fewshot

// Placeholder delimiter constants - single-brace syntax with doubled braces as escapes
const (
	OpenDelim         = "{"
	CloseDelim        = "}"
	EscapedOpenDelim  = "{{"
	EscapedCloseDelim = "}}"
)

// Message role constants for chat-oriented rendering
const (
	RoleHuman  = "human"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// Default configuration values
const (
	// DefaultExampleSeparator separates prefix, example fragments, and suffix
	// in string-mode output.
	DefaultExampleSeparator = "\n\n"
)

// Error code constants for categorization
const (
	ErrCodeParse    = "FEWSHOT_PARSE"
	ErrCodeRender   = "FEWSHOT_RENDER"
	ErrCodePartial  = "FEWSHOT_PARTIAL"
	ErrCodeConfig   = "FEWSHOT_CONFIG"
	ErrCodeRegistry = "FEWSHOT_REGISTRY"
	ErrCodeChain    = "FEWSHOT_CHAIN"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyVariable = "variable"
	MetaKeyValue    = "value"
	MetaKeyRole     = "role"
	MetaKeyName     = "name"
	MetaKeyPath     = "path"
	MetaKeyStage    = "stage"
)

// Log message constants for zap structured logging
const (
	LogMsgTemplateParsed    = "template parsed"
	LogMsgRenderStart       = "render started"
	LogMsgRenderComplete    = "render complete"
	LogMsgExamplesSelected  = "examples selected"
	LogMsgPromptRegistered  = "prompt registered"
	LogMsgPromptRemoved     = "prompt removed"
	LogMsgPromptFileLoaded  = "prompt file loaded"
	LogMsgPromptFileInvalid = "prompt file rejected"
	LogMsgWatchStarted      = "prompt directory watch started"
	LogMsgWatchStopped      = "prompt directory watch stopped"
	LogMsgWatchError        = "prompt directory watch error"
	LogMsgChainRunStart     = "chain run started"
	LogMsgChainRowsFetched  = "chain query rows fetched"
	LogMsgChainRunComplete  = "chain run complete"
	LogMsgChainStageFailed  = "chain stage failed"
)

// Log field name constants
const (
	LogFieldVariables = "variables"
	LogFieldExamples  = "examples"
	LogFieldMessages  = "messages"
	LogFieldLength    = "length"
	LogFieldName      = "name"
	LogFieldPath      = "path"
	LogFieldDir       = "dir"
	LogFieldRunID     = "run_id"
	LogFieldStage     = "stage"
	LogFieldQuestion  = "question"
	LogFieldRows      = "rows"
)

// Chain stage names used in logs and error metadata
const (
	ChainStageSchema    = "schema"
	ChainStageGenerate  = "generate"
	ChainStageExecute   = "execute"
	ChainStageSynthesis = "synthesis"
)

// Variable names the graph-QA chain templates must declare
const (
	ChainVarSchema   = "schema"
	ChainVarQuestion = "question"
	ChainVarContext  = "context"
)

// Prompt definition file extensions recognized by Registry.LoadDir
const (
	FileExtensionYAML = ".yaml"
	FileExtensionYML  = ".yml"
)
