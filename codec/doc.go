// Package codec turns the codec section of a proxy configuration into a pair of
// string functions used to encode addresses into proxied paths and back.
//
// Codecs come from two places. A Registry holds statically compiled codecs
// (url, plain, base64, xor) selected by name. When no name is configured the
// encode and decode snippets are compiled inside a sandbox, either a goja
// JavaScript runtime or a go-lua state, with file, module and eval facilities
// removed and a per-call execution timeout on the JavaScript side.
package codec
