package oracle

import "strings"

// The oracle's structured output is a label-delimited grammar: a line
// `LABEL:` starts a section whose value runs to the next all-caps label line
// or end of text. Labels are case-sensitive all-caps tokens by contract.

// ExtractSection returns the value of the named section, trimmed, or ""
// when the label is absent.
func ExtractSection(text, label string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		rest, ok := matchLabel(line, label)
		if !ok {
			continue
		}
		collected := []string{rest}
		for _, next := range lines[i+1:] {
			if isLabelLine(next) {
				break
			}
			collected = append(collected, next)
		}
		return strings.TrimSpace(strings.Join(collected, "\n"))
	}
	return ""
}

// ParseResponse splits a raw oracle response into its advice and new-state
// sections. When no ADVICE label is present the whole response is the advice.
func ParseResponse(text string) (advice, newState string) {
	advice = ExtractSection(text, "ADVICE")
	if advice == "" {
		advice = strings.TrimSpace(text)
	}
	newState = ExtractSection(text, "NEW GAME STATE")
	return advice, newState
}

func matchLabel(line, label string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, label) {
		return "", false
	}
	after := strings.TrimLeft(trimmed[len(label):], " \t")
	if !strings.HasPrefix(after, ":") {
		return "", false
	}
	return strings.TrimLeft(after[1:], " \t"), true
}

// isLabelLine reports whether the line opens a new section: an all-caps
// token (letters, spaces, underscores, hyphens) followed by a colon.
func isLabelLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	head, _, ok := strings.Cut(trimmed, ":")
	if !ok || head == "" {
		return false
	}
	head = strings.TrimRight(head, " \t")
	if head == "" || !(head[0] >= 'A' && head[0] <= 'Z') {
		return false
	}
	for _, r := range head {
		switch {
		case r >= 'A' && r <= 'Z':
		case r == ' ' || r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
