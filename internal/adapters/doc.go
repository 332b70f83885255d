// Package adapters holds the artifact naming conventions shared between the
// adapter upload pipeline and the migration verifier.
package adapters
