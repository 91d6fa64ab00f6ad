// Package generator implements the image generation request adapter.
//
// A Generator validates caller input, forwards one request to the upstream
// Together AI client, and maps the outcome into a result or a classified
// error. The only retry it ever performs is the single fallback to the
// default model when the upstream service rejects a caller-supplied model
// identifier as unknown; every other failure surfaces directly.
//
// Generators hold no per-request state and are safe for concurrent use.
package generator
