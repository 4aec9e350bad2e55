package codec

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Shopify/go-lua"
	"github.com/Shopify/goluago/util"
)

// restrictedLuaGlobals are cleared after the standard libraries are opened.
var restrictedLuaGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"collectgarbage",
}

// luaSandbox runs codec snippets in a private go-lua state.
// Only the base, table, string, math and bit32 libraries are opened, plus the
// ramjet helper table.
type luaSandbox struct {
	mu    sync.Mutex
	state *lua.State
}

func newLuaSandbox(globals map[string]any) *luaSandbox {
	l := lua.NewState()

	libraries := []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "table", Function: lua.TableOpen},
		{Name: "string", Function: lua.StringOpen},
		{Name: "math", Function: lua.MathOpen},
		{Name: "bit32", Function: lua.Bit32Open},
	}
	for _, library := range libraries {
		lua.Require(l, library.Name, library.Function, true)
		l.Pop(1)
	}

	for _, name := range restrictedLuaGlobals {
		l.PushNil()
		l.SetGlobal(name)
	}

	l.Register("encodeURIComponent", luaStringFunction(EncodeURIComponent))
	l.Register("decodeURIComponent", luaStringFunction(DecodeURIComponent))
	registerHelperLibrary(l)

	for name, value := range globals {
		util.DeepPush(l, value)
		l.SetGlobal(name)
	}

	return &luaSandbox{state: l}
}

// luaStringFunction exposes a Go string transform to Lua. Errors are raised as Lua errors.
func luaStringFunction(fn Func) lua.Function {
	return func(l *lua.State) int {
		input := lua.CheckString(l, 1)
		output, err := fn(input)
		if err != nil {
			lua.Errorf(l, "%s", err.Error())
			return 0
		}
		l.PushString(output)
		return 1
	}
}

// compile defines body as a global function taking url and returns a Func calling it.
func (s *luaSandbox) compile(global, body string) (Func, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top := s.state.Top()
	defer s.state.SetTop(top)

	source := fmt.Sprintf("function %s(url)\n%s\nend", global, body)
	if err := lua.DoString(s.state, source); err != nil {
		return nil, err
	}

	return func(input string) (string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		l := s.state
		top := l.Top()
		defer l.SetTop(top)

		l.Global(global)
		l.PushString(input)
		if err := l.ProtectedCall(1, 1, 0); err != nil {
			return "", err
		}

		output, ok := l.ToString(-1)
		if !ok {
			return "", errors.New("snippet did not return a string")
		}
		return output, nil
	}, nil
}
