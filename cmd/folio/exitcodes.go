package main

// Exit codes
const (
	ExitSuccess        = 0 // Success
	ExitError          = 1 // General error (invalid arguments, runtime failure, not found)
	ExitConfigError    = 2 // Configuration error (no repository, invalid config)
	ExitDataError      = 3 // Data error (malformed input, validation failure)
	ExitClipboardError = 4 // Clipboard unavailable or copy failed
)
