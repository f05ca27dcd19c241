package enrichment

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseMood interprets a mood classification response. A non-numeric
// response or an integer outside [1,5] yields nil, never a clamped or
// guessed value.
func ParseMood(response string) *int {
	mood, err := strconv.Atoi(strings.TrimSpace(response))
	if err != nil || mood < 1 || mood > 5 {
		return nil
	}
	return &mood
}

// ParseActions interprets an actions classification response: a JSON array
// of strings, joined with ";" after stripping the delimiter from each
// element. Any validation failure yields the empty string.
func ParseActions(response string) string {
	var actions []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &actions); err != nil {
		return ""
	}
	for i := range actions {
		actions[i] = strings.ReplaceAll(actions[i], ";", "")
	}
	return strings.Join(actions, ";")
}
