// Package report computes and renders before/after size deltas for
// completed transcode jobs.
package report
