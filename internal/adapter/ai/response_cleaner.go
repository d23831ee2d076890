package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*):`)
)

// CleanJSONResponse normalizes a model completion that is supposed to
// carry exactly one JSON object: markdown fences are stripped, the
// object is cut out of any surrounding prose, and a light repair pass
// fixes trailing commas and unquoted keys when the payload still does
// not parse.
func CleanJSONResponse(response string) string {
	response = stripMarkdownFences(response)
	response = extractJSONObject(response)

	var probe any
	if err := json.Unmarshal([]byte(response), &probe); err == nil {
		return response
	}
	return repairJSON(response)
}

func stripMarkdownFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// extractJSONObject returns the first brace-balanced object in response,
// or the input unchanged when none is found.
func extractJSONObject(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return response
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return response[start:]
}

func repairJSON(response string) string {
	response = trailingCommaRe.ReplaceAllString(response, "$1")
	response = bareKeyRe.ReplaceAllString(response, `$1"$2"$3:`)
	return response
}
