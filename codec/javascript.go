package codec

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// restrictedJavaScriptGlobals are removed from every JavaScript sandbox.
var restrictedJavaScriptGlobals = []string{
	"eval",
	"require",
	"process",
	"module",
	"exports",
}

// javascriptSandbox runs codec snippets in a private goja runtime.
// A goja runtime is not safe for concurrent use, so calls are serialized.
type javascriptSandbox struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	timeout time.Duration
}

func newJavaScriptSandbox(globals map[string]any, timeout time.Duration) (*javascriptSandbox, error) {
	vm := goja.New()
	vm.SetMaxCallStackSize(1024)

	for _, name := range restrictedJavaScriptGlobals {
		if err := vm.Set(name, goja.Undefined()); err != nil {
			return nil, fmt.Errorf("removing global %s : %w", name, err)
		}
	}
	for name, value := range globals {
		if err := vm.Set(name, value); err != nil {
			return nil, fmt.Errorf("setting global %s : %w", name, err)
		}
	}

	return &javascriptSandbox{
		vm:      vm,
		timeout: timeout,
	}, nil
}

// compile evaluates body as the body of a function taking url.
func (s *javascriptSandbox) compile(body string) (Func, error) {
	s.mu.Lock()
	value, err := s.run(func() (goja.Value, error) {
		return s.vm.RunString("(function (url) {\n" + body + "\n})")
	})
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	fn, ok := goja.AssertFunction(value)
	if !ok {
		return nil, errors.New("snippet did not evaluate to a function")
	}

	return func(input string) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		result, err := s.run(func() (goja.Value, error) {
			return fn(goja.Undefined(), s.vm.ToValue(input))
		})
		if err != nil {
			return "", err
		}
		if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
			return "", errors.New("snippet returned no value")
		}
		return result.String(), nil
	}, nil
}

// run executes call under the sandbox timeout. The caller holds s.mu.
func (s *javascriptSandbox) run(call func() (goja.Value, error)) (goja.Value, error) {
	fired := make(chan struct{})
	timer := time.AfterFunc(s.timeout, func() {
		defer close(fired)
		s.vm.Interrupt("execution timeout exceeded")
	})
	value, err := call()
	if !timer.Stop() {
		// The interrupt must land before it is cleared or it leaks into the next call.
		<-fired
	}
	s.vm.ClearInterrupt()

	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("interrupted after %s : %w", s.timeout, err)
		}
		return nil, err
	}
	return value, nil
}
