package snippets

import (
	"regexp"
	"strings"
)

// Snippet is one fenced code segment of a model answer.
type Snippet struct {
	Lang string
	Code string
	// Exchange is the index of the source exchange in history.
	Exchange int
}

// A tag is only taken when the rest of its line is blank, so "```print(1)```" is all body.
// Trailing spaces and CRLF line endings after the tag are allowed.
var fencePattern = regexp.MustCompile("(?s)```(?:([A-Za-z0-9_+#.-]*)[ \t]*\r?\n)?(.*?)```")

// Extract returns the fenced segments of text in order of appearance.
// Whitespace-only bodies and an unterminated trailing fence are skipped.
func Extract(text string, exchange int) (ret []Snippet) {
	for _, match := range fencePattern.FindAllStringSubmatch(text, -1) {
		code := match[2]
		if strings.TrimSpace(code) == "" {
			continue
		}
		ret = append(ret, Snippet{
			Lang:     match[1],
			Code:     code,
			Exchange: exchange,
		})
	}
	return
}
