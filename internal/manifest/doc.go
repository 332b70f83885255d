// Package manifest parses the per-adapter YAML descriptors kept in the legacy
// adapter registry into validated AdapterDescriptor values.
//
// Manifests carry many more keys than the verifier needs; only
// prediction_head, default_version, and files[*].version are decoded, and
// anything else is ignored.
package manifest
