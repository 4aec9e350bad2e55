package domain

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Partial is a caller supplied configuration override. Keys follow the JSON shape of Config
// (prefix, globals, files, defaultFlags, siteFlags, codec) and nested records are plain maps.
type Partial map[string]any

// Flags maps a behaviour toggle name to its value.
type Flags map[string]bool

// Enabled reports whether the flag is set. Unknown flags are disabled.
func (f Flags) Enabled(name string) bool {
	return f[name]
}

func (f Flags) tree() map[string]any {
	tree := make(map[string]any, len(f))
	for name, value := range f {
		tree[name] = value
	}
	return tree
}

// Codec holds the URL codec selection.
// Encode and Decode are bodies of a one-argument function whose parameter is named url.
// Name selects a statically compiled codec and takes precedence over the snippets when set.
type Codec struct {
	Name   string `mapstructure:"name"`   // Registered codec name (url, plain, base64, xor)
	Engine string `mapstructure:"engine"` // Snippet engine, "javascript" (default) or "lua"
	Encode string `mapstructure:"encode"` // Encode function body
	Decode string `mapstructure:"decode"` // Decode function body
}

func (c Codec) tree() map[string]any {
	tree := map[string]any{
		"encode": c.Encode,
		"decode": c.Decode,
	}
	if c.Name != "" {
		tree["name"] = c.Name
	}
	if c.Engine != "" {
		tree["engine"] = c.Engine
	}
	return tree
}

// Config is the proxy configuration record owned by a controller.
type Config struct {
	Prefix       string            `mapstructure:"prefix"`       // Path prefix every proxied address lives under
	Globals      map[string]string `mapstructure:"globals"`      // Hook name to the global function name emitted by the rewriter
	Files        map[string]string `mapstructure:"files"`        // Bundle role (wasm, shared, worker, client, sync) to URL path
	DefaultFlags Flags             `mapstructure:"defaultFlags"` // Baseline behaviour toggles
	SiteFlags    map[string]Flags  `mapstructure:"siteFlags"`    // Site pattern to partial flag override
	Codec        Codec             `mapstructure:"codec"`        // URL codec
	Extra        map[string]any    `mapstructure:",remain"`      // Caller keys the record does not model
}

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() *Config {
	return &Config{
		Prefix: "/scramjet/",
		Globals: map[string]string{
			"wrapfn":          "$scramjet$wrap",
			"wrapthisfn":      "$scramjet$wrapthis",
			"trysetfn":        "$scramjet$tryset",
			"importfn":        "$scramjet$import",
			"rewritefn":       "$scramjet$rewrite",
			"metafn":          "$scramjet$meta",
			"setrealmfn":      "$scramjet$setrealm",
			"pushsourcemapfn": "$scramjet$pushsourcemap",
		},
		Files: map[string]string{
			"wasm":   "/scramjet.wasm.js",
			"shared": "/scramjet.shared.js",
			"worker": "/scramjet.worker.js",
			"client": "/scramjet.client.js",
			"sync":   "/scramjet.sync.js",
		},
		DefaultFlags: Flags{
			"serviceworkers": false,
			"naiiveRewriter": false,
			"captureErrors":  true,
			"strictRewrites": true,
			"syncxhr":        false,
			"cleanerrors":    false,
			"scramitize":     false,
			"sourcemaps":     false,
			"rewriterLogs":   true,
		},
		SiteFlags: map[string]Flags{},
		Codec: Codec{
			Encode: "if (!url) return url;\n\treturn encodeURIComponent(url);",
			Decode: "if (!url) return url;\n\treturn decodeURIComponent(url);",
		},
	}
}

// Map renders the configuration as a tree of map[string]any keyed by the JSON field names.
// Extra keys are included as they are.
func (c *Config) Map() map[string]any {
	tree := make(map[string]any, len(c.Extra)+6)
	for key, value := range c.Extra {
		tree[key] = value
	}

	tree["prefix"] = c.Prefix
	tree["globals"] = stringTree(c.Globals)
	tree["files"] = stringTree(c.Files)
	tree["defaultFlags"] = c.DefaultFlags.tree()

	sites := make(map[string]any, len(c.SiteFlags))
	for site, flags := range c.SiteFlags {
		sites[site] = flags.tree()
	}
	tree["siteFlags"] = sites
	tree["codec"] = c.Codec.tree()

	return tree
}

// Clone returns a deep copy of the typed fields. Extra values are shared.
func (c *Config) Clone() *Config {
	clone := &Config{
		Prefix:       c.Prefix,
		Globals:      make(map[string]string, len(c.Globals)),
		Files:        make(map[string]string, len(c.Files)),
		DefaultFlags: make(Flags, len(c.DefaultFlags)),
		SiteFlags:    make(map[string]Flags, len(c.SiteFlags)),
		Codec:        c.Codec,
	}
	for k, v := range c.Globals {
		clone.Globals[k] = v
	}
	for k, v := range c.Files {
		clone.Files[k] = v
	}
	for k, v := range c.DefaultFlags {
		clone.DefaultFlags[k] = v
	}
	for site, flags := range c.SiteFlags {
		copied := make(Flags, len(flags))
		for k, v := range flags {
			copied[k] = v
		}
		clone.SiteFlags[site] = copied
	}
	if c.Extra != nil {
		clone.Extra = make(map[string]any, len(c.Extra))
		for k, v := range c.Extra {
			clone.Extra[k] = v
		}
	}
	return clone
}

// MarshalJSON implements json.Marshaler using the Map representation.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Config) UnmarshalJSON(data []byte) error {
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshalling configuration : %w", err)
	}
	decoded, err := ConfigFromMap(tree)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

// ConfigFromMap decodes a configuration tree into a Config.
// Keys that are not part of the record are kept in Extra.
func ConfigFromMap(tree map[string]any) (*Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &cfg,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("creating configuration decoder : %w", err)
	}
	if err := decoder.Decode(tree); err != nil {
		return nil, fmt.Errorf("decoding configuration : %w", err)
	}
	return &cfg, nil
}

func stringTree(values map[string]string) map[string]any {
	tree := make(map[string]any, len(values))
	for k, v := range values {
		tree[k] = v
	}
	return tree
}
