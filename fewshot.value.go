package fewshot

import (
	"context"
	"sync"
)

// Value is a bound variable value: a literal string, a synchronous producer,
// or a deferred producer that is awaited at render time. The closed set of
// variants keeps resolution a tag dispatch instead of reflection.
type Value interface {
	isValue()
}

type literalValue struct {
	text string
}

type funcValue struct {
	fn func() (string, error)
}

type asyncValue struct {
	fn func(ctx context.Context) (string, error)
}

func (literalValue) isValue() {}
func (funcValue) isValue()    {}
func (asyncValue) isValue()   {}

// StringValue wraps a literal string as a Value.
func StringValue(text string) Value {
	return literalValue{text: text}
}

// FuncValue wraps a zero-argument synchronous producer as a Value.
// The producer is invoked once per render that references it.
func FuncValue(fn func() (string, error)) Value {
	return funcValue{fn: fn}
}

// AsyncValue wraps a deferred producer as a Value. The producer receives the
// render's context and is awaited before final assembly.
func AsyncValue(fn func(ctx context.Context) (string, error)) Value {
	return asyncValue{fn: fn}
}

// valueFrom coerces the supported input shapes into a Value.
// Accepted: Value, string, func() (string, error), func() string,
// func(context.Context) (string, error).
func valueFrom(name string, raw any) (Value, error) {
	switch v := raw.(type) {
	case Value:
		return v, nil
	case string:
		return literalValue{text: v}, nil
	case func() (string, error):
		return funcValue{fn: v}, nil
	case func() string:
		return funcValue{fn: func() (string, error) { return v(), nil }}, nil
	case func(context.Context) (string, error):
		return asyncValue{fn: v}, nil
	default:
		return nil, NewInvalidValueError(name, raw)
	}
}

// resolveValue produces the final string for a single Value.
// Producer failures propagate unchanged.
func resolveValue(ctx context.Context, v Value) (string, error) {
	switch val := v.(type) {
	case literalValue:
		return val.text, nil
	case funcValue:
		return val.fn()
	case asyncValue:
		return val.fn(ctx)
	default:
		return "", NewInvalidValueError("", v)
	}
}

// resolveAll resolves every named value and returns the finished strings.
// Producer-backed values fan out to goroutines; assembly waits for all of
// them to finish before returning. The first failure wins.
func resolveAll(ctx context.Context, values map[string]Value) (map[string]string, error) {
	results := make(map[string]string, len(values))

	// Fast path: literal-only renders need no goroutines.
	deferred := 0
	for _, v := range values {
		if _, ok := v.(literalValue); !ok {
			deferred++
		}
	}
	if deferred == 0 {
		for name, v := range values {
			results[name] = v.(literalValue).text
		}
		return results, nil
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	for name, v := range values {
		if lit, ok := v.(literalValue); ok {
			results[name] = lit.text
			continue
		}
		wg.Add(1)
		go func(name string, v Value) {
			defer wg.Done()
			text, err := resolveValue(ctx, v)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[name] = text
		}(name, v)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
