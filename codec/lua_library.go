package codec

import (
	"encoding/base64"
	"encoding/hex"
	"html"
	"net/url"

	"github.com/Shopify/go-lua"
)

// registerHelperLibrary installs the `ramjet` global table. Each sub-table exposes
// transforms codec snippets commonly chain, e.g. ramjet.base64.encode(url).
func registerHelperLibrary(l *lua.State) {
	l.NewTable()

	register := func(name string, funcs []lua.RegistryFunction) {
		lua.NewLibrary(l, funcs)
		l.SetField(-2, name)
	}

	register("base64", base64Library())
	register("hex", hexLibrary())
	register("url", queryLibrary())
	register("html", htmlLibrary())

	l.SetGlobal("ramjet")
}

// luaBytesFunction exposes a transform that cannot fail.
func luaBytesFunction(fn func(string) string) lua.Function {
	return func(l *lua.State) int {
		l.PushString(fn(lua.CheckString(l, 1)))
		return 1
	}
}

// base64Library is ramjet.base64. The url variants use the unpadded URL alphabet.
func base64Library() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "encode", Function: luaBytesFunction(func(s string) string {
			return base64.StdEncoding.EncodeToString([]byte(s))
		})},
		{Name: "decode", Function: luaStringFunction(func(s string) (string, error) {
			decoded, err := base64.StdEncoding.DecodeString(s)
			return string(decoded), err
		})},
		{Name: "urlencode", Function: luaBytesFunction(func(s string) string {
			return base64.RawURLEncoding.EncodeToString([]byte(s))
		})},
		{Name: "urldecode", Function: luaStringFunction(func(s string) (string, error) {
			decoded, err := base64.RawURLEncoding.DecodeString(s)
			return string(decoded), err
		})},
	}
}

// hexLibrary is ramjet.hex.
func hexLibrary() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "encode", Function: luaBytesFunction(func(s string) string {
			return hex.EncodeToString([]byte(s))
		})},
		{Name: "decode", Function: luaStringFunction(func(s string) (string, error) {
			decoded, err := hex.DecodeString(s)
			return string(decoded), err
		})},
	}
}

// queryLibrary is ramjet.url, query string escaping.
func queryLibrary() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "encode", Function: luaBytesFunction(url.QueryEscape)},
		{Name: "decode", Function: luaStringFunction(url.QueryUnescape)},
	}
}

// htmlLibrary is ramjet.html.
func htmlLibrary() []lua.RegistryFunction {
	return []lua.RegistryFunction{
		{Name: "escape", Function: luaBytesFunction(html.EscapeString)},
		{Name: "unescape", Function: luaBytesFunction(html.UnescapeString)},
	}
}
