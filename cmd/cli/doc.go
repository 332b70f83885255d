// Package cli constructs the hub-verify command-line interface. It wires the
// Cobra command hierarchy to the layered configuration loader and the zap
// logger, and attaches the verify command with providers that read the
// resolved configuration at execution time.
package cli
