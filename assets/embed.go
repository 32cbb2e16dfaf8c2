// Package assets embeds reference data shipped with the binary.
package assets

import _ "embed"

// FallbackCoursesCSV is served when the configured course catalog file is
// absent or unreadable.
//
//go:embed courses_fallback.csv
var FallbackCoursesCSV []byte
