// Package dispatch ties the asset pipelines together. It routes every file
// to its strategist by classification, mirrors outputs into the output tree
// and drives the two operating phases: the startup backfill over existing
// files and the live filesystem watch that follows it.
package dispatch
