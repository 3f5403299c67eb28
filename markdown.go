package htmlbuilder

import (
	"strings"

	"github.com/russross/blackfriday/v2"
)

// Markdown converts Markdown source to HTML and returns it as a Raw leaf. The
// source is trusted: raw HTML inside it is passed through untouched.
func Markdown(src string) Raw {
	out := blackfriday.Run([]byte(src))
	return Raw(strings.TrimSuffix(string(out), "\n"))
}
