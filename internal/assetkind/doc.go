// Package assetkind classifies files into transcode categories based on
// their extension.
//
// The extension sets are fixed, disjoint constants: an extension belongs to
// exactly one category or none. Classification is a pure function with no
// I/O; it never validates file content, so a renamed non-media file with a
// matching extension is still dispatched and fails at the strategist
// boundary.
package assetkind
