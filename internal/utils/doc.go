// Package utils holds the ambient plumbing shared by commands: layered Viper
// configuration, zap logger construction, command context metadata, and a
// flushing writer for progress output.
package utils
