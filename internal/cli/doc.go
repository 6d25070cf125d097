// Package cli defines the Cobra command tree for synapse-reg. The root
// command patches the homeserver config; subcommands only report on the
// binary itself. Business logic lives in internal/homeserver; this package
// handles flags, output, and logging.
package cli
