// Package logging provides leveled logging with environment-based
// configuration.
//
// The log level is controlled by the LOG_LEVEL environment variable
// (debug, info, warn, error) or by setting DEBUG=true, which forces
// the debug level. The default level is info.
package logging
