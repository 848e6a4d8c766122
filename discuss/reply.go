package discuss

import (
	"encoding/json"
	"strings"

	"github.com/hupe1980/panelmesh/core"
)

// structuredReply is the document personas are instructed to produce.
type structuredReply struct {
	Response string `json:"response"`
	Mood     string `json:"mood"`
}

// ExtractJSON slices the JSON-looking span out of raw: everything between
// the first '{' and the last '}'. Models wrap their documents in markdown
// fences or prose often enough that this is needed before unmarshalling.
// ok is false when raw contains no such span.
func ExtractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseReply extracts the response text and mood from a raw model reply.
//
// Models are instructed to answer with a {response, mood} JSON document; any
// reply that cannot be sliced and parsed as one is returned whole with
// MoodNeutral. Parsing never fails.
func ParseReply(raw string) (string, core.Mood) {
	trimmed := strings.TrimSpace(raw)

	doc, ok := ExtractJSON(trimmed)
	if !ok {
		return trimmed, core.MoodNeutral
	}

	var reply structuredReply
	if err := json.Unmarshal([]byte(doc), &reply); err != nil {
		return trimmed, core.MoodNeutral
	}

	// An empty response field is returned as-is with the parsed mood; the
	// sequencer substitutes its placeholder text for empty replies.
	mood, _ := core.ParseMood(reply.Mood)

	return strings.TrimSpace(reply.Response), mood
}
