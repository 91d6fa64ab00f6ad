// Package imaging inspects generated image payloads.
//
// The server passes generated images through unmodified; this package only
// decodes them in memory to attach accurate dimension and format metadata to
// tool results. Format detection is content-based since upstream payloads
// have no filename.
package imaging
