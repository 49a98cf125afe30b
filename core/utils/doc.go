// Package utils provides common utility functions for the tailor-preview application.
// It holds the loose value conversions used to read texture attributes, which
// arrive as untyped JSON values.
package utils
