package eval

import "strings"

// extractXMLTag returns the trimmed text between <tag> and </tag>, or
// false when the tag is absent. LLM output is not well-formed XML, so this
// is a plain substring scan over the first matching pair.
func extractXMLTag(s, tag string) (string, bool) {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"

	start := strings.Index(s, open)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(open):]
	end := strings.Index(rest, closing)
	if end < 0 {
		return "", false
	}

	return strings.TrimSpace(rest[:end]), true
}
