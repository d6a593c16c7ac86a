// Package vector optimizes SVG assets with multi-pass minification at a
// fixed floating-point precision. SVG in, smaller SVG out; there is no
// format change.
package vector
