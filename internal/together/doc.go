// Package together is a minimal client for the Together AI image generation
// endpoint.
//
// The client issues a single bearer-authenticated JSON POST per Generate call
// and decodes the response into typed structs. It performs no validation,
// defaulting, or retry logic; that belongs to the adapter layer on top of it.
//
// # Error Handling
//
// Non-2xx responses are returned as *StatusError carrying the upstream status
// code and decoded error message. Network failures and timeouts are returned
// as the underlying transport errors. A 2xx response whose body cannot be
// decoded, or which contains no image descriptor, is reported as
// ErrMalformedResponse.
package together
