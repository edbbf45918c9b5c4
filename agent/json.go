package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	jsonFenceRe  = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// decodeModelJSON parses a JSON object out of a model response. Models often
// wrap the object in a ```json fence or surround it with prose; the fence
// content wins, otherwise the outermost object is taken.
func decodeModelJSON(response string, v any) error {
	raw := response
	if m := jsonFenceRe.FindStringSubmatch(response); m != nil {
		raw = m[1]
	} else if m := jsonObjectRe.FindString(response); m != "" {
		raw = m
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), v); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

// truncateRunes shortens s to at most n runes, marking the cut with an
// ellipsis.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
