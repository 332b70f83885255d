// Package verify audits an adapter registry migration against the model hub.
//
// Verifier walks adapter manifests, checks that every listed version (and the
// default version mirrored on main) carries the required artifact files, and
// persists an ErrorReport after each manifest so an interrupted run leaves
// its latest state on disk. CommandBuilder wires the verify Cobra command.
package verify
