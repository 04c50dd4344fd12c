package main

// Exit codes. A build that completes with unresolved references still
// exits 0; non-zero codes are reserved for setup and infrastructure
// failures.
const (
	ExitSuccess     = 0 // Success, possibly with unresolved references
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad page spec, bad paths)
	ExitStoreError  = 3 // Graph store unavailable or write failed
	ExitAPIError    = 4 // Semantic Scholar API unusable (auth failure)
)
