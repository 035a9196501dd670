// Package legend holds the user-facing explanation of search and tenure
// labels, shared by the web about page and the terminal legend view.
package legend

import _ "embed"

// Markdown is the legend source, GitHub-flavoured markdown with tables.
//
//go:embed legend.md
var Markdown string
