package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, invalid config.yml)
	ExitDataError   = 3 // Data error (malformed catalog, validation failure, broken links)
)
