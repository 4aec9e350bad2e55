// Package ramjet provides the controller of an in-browser interception proxy. It is designed
// to be decoupled from the rewriter and the interception worker it configures, and exposes the
// operations a host application needs to bootstrap them.
//
// The core functionality includes:
//   - Merging caller overrides into the default proxy configuration
//   - Compiling the configured URL codec (JavaScript or Lua snippets, or a registered codec)
//   - Translating between real addresses and proxied addresses under the configured prefix
//   - Persisting the configuration in a versioned local store
//   - Registering the interception worker
//   - Resolving per-site behaviour flags
//   - Creating frames whose navigation goes through the proxy
package ramjet
