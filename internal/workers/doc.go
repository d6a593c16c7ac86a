// Package workers calculates optimal worker pool sizes based on available
// CPU resources, with an environment-variable override for manual tuning.
package workers
