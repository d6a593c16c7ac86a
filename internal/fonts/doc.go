// Package fonts converts TrueType fonts to WOFF2 for web delivery.
//
// The conversion is done in-process: the sfnt table directory is parsed,
// the tables are concatenated in physical order, compressed with Brotli
// and wrapped in a WOFF2 container with the null table transforms. Fonts
// that are already WOFF2 are copied through untouched.
package fonts
