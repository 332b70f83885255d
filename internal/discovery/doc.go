// Package discovery locates adapter manifest files on disk.
package discovery
