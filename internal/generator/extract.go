package generator

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/record"
)

// fenceRegex matches a fenced block, with or without a language tag.
var fenceRegex = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \\t]*\\r?\\n?(.*?)```")

// rawRecord accepts the generator's loose output before normalization.
type rawRecord struct {
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Impact      string   `json:"impact"`
	Action      string   `json:"action"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
}

// ExtractRecords pulls a JSON array of records out of free text.
// The interior of the first fenced block is tried first; when there is no
// fence or it does not parse, the span from the first '[' to the last ']'
// of the whole text is parsed. Unparseable output, or an array with no
// titled record, is an INVALID_RESULT error.
func ExtractRecords(text string) ([]record.Record, error) {
	var raw []rawRecord
	fenced := false
	if m := fenceRegex.FindStringSubmatch(text); m != nil {
		fenced = json.Unmarshal([]byte(strings.TrimSpace(m[1])), &raw) == nil
	}

	if !fenced {
		raw = nil
		start := strings.Index(text, "[")
		end := strings.LastIndex(text, "]")
		if start < 0 || end < start {
			return nil, errors.NewInvalidResult("no JSON array in output")
		}
		if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
			return nil, errors.NewInvalidResult("malformed JSON array: " + err.Error())
		}
	}

	records := make([]record.Record, 0, len(raw))
	for _, r := range raw {
		rec := normalizeRecord(r)
		if rec.Title == "" {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, errors.NewInvalidResult("empty array")
	}
	return records, nil
}

func normalizeRecord(r rawRecord) record.Record {
	out := record.Record{
		Title:       strings.TrimSpace(r.Title),
		Date:        strings.TrimSpace(r.Date),
		Location:    strings.TrimSpace(r.Location),
		Category:    record.ParseCategory(r.Category),
		Impact:      strings.TrimSpace(r.Impact),
		Action:      strings.TrimSpace(r.Action),
		Description: strings.TrimSpace(r.Description),
		Price:       strings.TrimSpace(r.Price),
		URL:         strings.TrimSpace(r.URL),
	}
	for _, tag := range r.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out.Tags = append(out.Tags, tag)
		}
	}
	return out
}
