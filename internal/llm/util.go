// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock reduces a model response to the JSON value it carries.
// Models wrap JSON in ```json fences, open with a sentence of preamble or close
// with a friendly remark even when told not to; all of that is removed. Text with
// no JSON value is returned trimmed but otherwise unchanged.
func CleanJSONBlock(text string) string {
	text = stripFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	// Prose may carry brackets of its own ("[JSON]: {...}"): take the first
	// balanced value that parses, else the first balanced one.
	first := ""
	for i := start; ; {
		value := balancedAt(text[i:])
		if value != "" {
			if json.Valid([]byte(value)) {
				return value
			}
			if first == "" {
				first = value
			}
		}
		next := strings.IndexAny(text[i+1:], "{[")
		if next < 0 {
			break
		}
		i += next + 1
	}
	if first == "" {
		// Unbalanced: hand back from the first bracket on and let the parser report it.
		return strings.TrimSpace(text[start:])
	}
	return first
}

func balancedAt(text string) string {
	if text[0] == '{' {
		return extractJSONObject(text)
	}
	return extractJSONArray(text)
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Skip a language identifier on the first line ("json", "javascript").
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced returns the prefix of text that forms one balanced value opened
// by open, skipping brackets inside JSON strings. It returns "" when text does not
// start with open or never closes.
func extractBalanced(text string, open, closer byte) string {
	if text == "" || text[0] != open {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
