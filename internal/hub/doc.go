// Package hub provides a minimal Hugging Face Hub client exposing the
// repository and file existence checks used by the migration verifier.
//
// Client issues plain REST requests against a configurable endpoint, maps
// not-found responses to false, and surfaces every other failure as a typed
// error. TokenResolver locates access tokens from the environment or files.
package hub
