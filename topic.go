package seoblog

import (
	"regexp"
	"strings"
)

var reTopicLabel = regexp.MustCompile(`주제:\s*(.*)`)

// ExtractTopic pulls the topic out of free-form input. Input of the form
// "주제: <topic>" yields <topic>; anything else is used whole. The result is
// trimmed and empty when there is nothing to generate.
func ExtractTopic(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if m := reTopicLabel.FindStringSubmatch(input); m != nil {
		return strings.TrimSpace(m[1])
	}
	return input
}
