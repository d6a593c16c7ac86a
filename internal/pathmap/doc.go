// Package pathmap maps input paths under the watch root to their mirrored
// locations under the output root, preserving intermediate directory
// segments and stripping the original extension.
package pathmap
