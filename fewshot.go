// Package fewshot renders few-shot LLM prompts: reusable templates that
// interpolate runtime variables and inject a selected subset of example
// input/output pairs so a model can imitate the demonstrated pattern.
//
// # Templates
//
// Patterns use single-brace placeholders; doubled braces escape to literal
// braces:
//
//	t := fewshot.MustFromTemplate("Hello, {name}!")
//	out, err := t.Format(ctx, map[string]any{"name": "Alice"})
//	// out: "Hello, Alice!"
//
// Variables accept literal strings or zero-argument producer functions,
// synchronous or deferred; independent variables resolve concurrently and
// assembly waits for all of them:
//
//	t.Format(ctx, map[string]any{
//	    "name": func(ctx context.Context) (string, error) { return lookupName(ctx) },
//	})
//
// # Partial binding
//
// Partial fixes a subset of variables ahead of time and returns a new
// template requiring fewer inputs. Templates are immutable, so sharing one
// instance across concurrent renders is safe:
//
//	greeting, _ := t.Partial(map[string]any{"name": "Alice"})
//	out, _ := greeting.Format(ctx, nil)
//
// # Few-shot composites
//
// FewShotPromptTemplate renders prefix + example fragments + suffix into one
// flat string; FewShotChatMessageTemplate renders each example into discrete
// role-tagged message records. Both take either a static example pool or a
// pluggable ExampleSelector such as LengthBasedExampleSelector, which
// accepts the longest prefix of the pool fitting a length budget:
//
//	selector, _ := fewshot.NewLengthBasedExampleSelector(pool, examplePrompt, 25)
//	prompt, _ := fewshot.NewFewShotPromptTemplate(fewshot.FewShotPromptConfig{
//	    ExamplePrompt: examplePrompt,
//	    Suffix:        fewshot.MustFromTemplate("Question: {question}"),
//	    Selector:      selector,
//	})
//	out, _ := prompt.Format(ctx, map[string]any{"question": "B?"})
//
// # Definitions and registry
//
// Prompt definitions load from YAML files, and a Registry holds named
// prompts with optional directory watching for live reload. Registries are
// explicit values to inject, never ambient globals.
//
// # Error handling
//
// Construction-time errors (malformed patterns, invalid configuration,
// partial-binding misuse) and render-time errors (missing variables) are
// cuserr errors carrying metadata such as the offending variable name. An
// empty example selection is a valid outcome, never an error.
package fewshot
