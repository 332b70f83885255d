// Package pathutils normalizes filesystem paths supplied through configuration and flags.
package pathutils
