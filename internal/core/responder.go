package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// errBadDelegate is a sentinel error for delegate functions whose shape
// doesn't fit the call being answered. Dispatch escalates it to a fatal
// usage error.
var errBadDelegate = errors.New("bad delegate")

// responderKind tags the Responder variants.
type responderKind int

const (
	respondValues responderKind = iota
	respondError
	respondFn
	respondCtxFn
	respondDelegate
)

// Responder produces the simulated result of one answered call.
// It is a tagged variant: fixed values, a fixed error, a synchronous
// function of the arguments, a context-aware (possibly blocking, possibly
// fallible) function, or a delegation to an externally supplied function
// value invoked by reflection.
type Responder struct {
	kind     responderKind
	values   []any
	err      error
	fn       func(args []any) []any
	ctxFn    func(ctx context.Context, args []any) ([]any, error)
	delegate reflect.Value
}

// ReturnValues creates a Responder that answers with fixed values.
func ReturnValues(values ...any) Responder {
	return Responder{kind: respondValues, values: values}
}

// ReturnError creates a Responder that answers with a fixed error.
// The error is the simulated result of the call, not an engine failure:
// the call is still recorded and counted like any other.
func ReturnError(err error) Responder {
	return Responder{kind: respondError, err: err}
}

// InvokeFn creates a Responder that computes its values synchronously
// from the actual arguments.
func InvokeFn(fn func(args []any) []any) Responder {
	return Responder{kind: respondFn, fn: fn}
}

// InvokeCtx creates a Responder backed by a context-aware function.
// The function may block on other work before producing a value or an
// error; the engine holds no lock while it runs.
func InvokeCtx(fn func(ctx context.Context, args []any) ([]any, error)) Responder {
	return Responder{kind: respondCtxFn, ctxFn: fn}
}

// Delegate creates a Responder that forwards the call to an externally
// supplied function value, invoked by reflection. The function's arity
// must equal the call's; a trailing error return is split out as the
// simulated error. A non-function value or an argument shape mismatch is
// a usage error, escalated to fatal at dispatch time.
func Delegate(fn any) Responder {
	return Responder{kind: respondDelegate, delegate: reflect.ValueOf(fn)}
}

// Respond evaluates the variant against the actual arguments.
// Errors wrapping errBadDelegate signal usage mistakes, not simulated
// results; every other returned error is the call's configured outcome.
func (r Responder) Respond(ctx context.Context, args []any) ([]any, error) {
	switch r.kind {
	case respondValues:
		return r.values, nil
	case respondError:
		return nil, r.err
	case respondFn:
		return r.fn(args), nil
	case respondCtxFn:
		return r.ctxFn(ctx, args)
	case respondDelegate:
		return r.callDelegate(args)
	default:
		panic(fmt.Sprintf("standin: unknown responder kind %d", r.kind))
	}
}

// callDelegate invokes the delegate function with the actual arguments.
func (r Responder) callDelegate(args []any) ([]any, error) {
	fnType := r.delegate.Type()

	if r.delegate.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: delegate is %s, not a function", errBadDelegate, fnType)
	}

	if fnType.NumIn() != len(args) || fnType.IsVariadic() {
		return nil, fmt.Errorf(
			"%w: delegate takes %d args, call has %d", errBadDelegate, fnType.NumIn(), len(args),
		)
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(fnType.In(i))

			continue
		}

		val := reflect.ValueOf(arg)
		if !val.Type().AssignableTo(fnType.In(i)) {
			return nil, fmt.Errorf(
				"%w: arg %d is %T, delegate wants %s", errBadDelegate, i, arg, fnType.In(i),
			)
		}

		in[i] = val
	}

	out := r.delegate.Call(in)

	values := make([]any, 0, len(out))
	for _, v := range out {
		values = append(values, v.Interface())
	}

	// A trailing error return becomes the simulated error.
	if len(values) > 0 {
		if last, ok := values[len(values)-1].(error); ok {
			return values[:len(values)-1], last
		}

		if lastOut := fnType.Out(fnType.NumOut() - 1); lastOut == errorType {
			// Typed nil error: strip it so callers see a clean nil.
			return values[:len(values)-1], nil
		}
	}

	return values, nil
}

//nolint:gochecknoglobals // canonical reflect.Type of error
var errorType = reflect.TypeOf((*error)(nil)).Elem()
