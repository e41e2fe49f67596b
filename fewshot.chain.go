package fewshot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Model is the boundary to an LLM client for string prompts. The rendered
// output of a FewShotPromptTemplate is exactly the input this call expects.
type Model interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ChatModel is the boundary to a chat-oriented LLM client. The rendered
// output of a FewShotChatMessageTemplate is exactly the input this call
// expects.
type ChatModel interface {
	InvokeMessages(ctx context.Context, messages []Message) (string, error)
}

// GraphStore is the boundary to a graph query backend. The query language
// and execution engine are opaque to this package.
type GraphStore interface {
	Query(ctx context.Context, statement string) ([]map[string]any, error)
	GetSchema(ctx context.Context) (string, error)
	RefreshSchema(ctx context.Context) error
}

// GraphQAChain answers natural-language questions over a graph store in
// three stages: generate a query from the schema and question, execute it,
// and synthesize an answer from the returned rows. It owns no retry policy;
// collaborator failures propagate wrapped with the failing stage.
type GraphQAChain struct {
	model        Model
	store        GraphStore
	queryPrompt  *FewShotPromptTemplate
	answerPrompt *PromptTemplate
	logger       *zap.Logger
}

// NewGraphQAChain builds a chain. The query prompt must declare {schema} and
// {question}; the answer prompt must declare {question} and {context}.
func NewGraphQAChain(model Model, store GraphStore, queryPrompt *FewShotPromptTemplate, answerPrompt *PromptTemplate, opts ...Option) (*GraphQAChain, error) {
	if model == nil {
		return nil, NewConfigError(ErrMsgNilModel)
	}
	if store == nil {
		return nil, NewConfigError(ErrMsgNilGraphStore)
	}
	if queryPrompt == nil || answerPrompt == nil {
		return nil, NewConfigError(ErrMsgNilExamplePrompt)
	}
	if err := requireVariables(queryPrompt.Variables(), ChainVarSchema, ChainVarQuestion); err != nil {
		return nil, err
	}
	if err := requireVariables(answerPrompt.Variables(), ChainVarQuestion, ChainVarContext); err != nil {
		return nil, err
	}

	c := defaultConfig().apply(opts)
	return &GraphQAChain{
		model:        model,
		store:        store,
		queryPrompt:  queryPrompt,
		answerPrompt: answerPrompt,
		logger:       c.logger,
	}, nil
}

// Run executes the full pipeline for one question.
func (c *GraphQAChain) Run(ctx context.Context, question string) (string, error) {
	runID := uuid.NewString()
	logger := c.logger.With(zap.String(LogFieldRunID, runID))
	logger.Debug(LogMsgChainRunStart, zap.String(LogFieldQuestion, question))

	schema, err := c.store.GetSchema(ctx)
	if err != nil {
		return "", c.stageError(logger, ChainStageSchema, err)
	}

	queryInput, err := c.queryPrompt.Format(ctx, map[string]any{
		ChainVarSchema:   schema,
		ChainVarQuestion: question,
	})
	if err != nil {
		return "", c.stageError(logger, ChainStageGenerate, err)
	}
	statement, err := c.model.Invoke(ctx, queryInput)
	if err != nil {
		return "", c.stageError(logger, ChainStageGenerate, err)
	}

	rows, err := c.store.Query(ctx, strings.TrimSpace(statement))
	if err != nil {
		return "", c.stageError(logger, ChainStageExecute, err)
	}
	logger.Debug(LogMsgChainRowsFetched, zap.Int(LogFieldRows, len(rows)))

	answerInput, err := c.answerPrompt.Format(ctx, map[string]any{
		ChainVarQuestion: question,
		ChainVarContext:  formatRows(rows),
	})
	if err != nil {
		return "", c.stageError(logger, ChainStageSynthesis, err)
	}
	answer, err := c.model.Invoke(ctx, answerInput)
	if err != nil {
		return "", c.stageError(logger, ChainStageSynthesis, err)
	}

	logger.Debug(LogMsgChainRunComplete)
	return answer, nil
}

// RefreshSchema asks the store to rebuild its schema description.
func (c *GraphQAChain) RefreshSchema(ctx context.Context) error {
	return c.store.RefreshSchema(ctx)
}

func (c *GraphQAChain) stageError(logger *zap.Logger, stage string, err error) error {
	logger.Warn(LogMsgChainStageFailed, zap.String(LogFieldStage, stage), zap.Error(err))
	return NewChainStageError(stage, err)
}

// requireVariables checks that declared contains every required name.
func requireVariables(declared []string, required ...string) error {
	set := make(map[string]bool, len(declared))
	for _, name := range declared {
		set[name] = true
	}
	for _, name := range required {
		if !set[name] {
			return NewChainVariableError(name)
		}
	}
	return nil
}

// formatRows renders query rows as deterministic key: value lines, rows
// separated by blank lines.
func formatRows(rows []map[string]any) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n\n")
		}
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for j, k := range keys {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(toString(row[k]))
		}
	}
	return b.String()
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
