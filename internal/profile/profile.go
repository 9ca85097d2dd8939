// Package profile loads YAML scan profiles and renders them as generator
// instructions.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hpungsan/radar/internal/record"
)

// Profile kinds.
const (
	KindLLM  = "llm"
	KindFeed = "feed"
)

// DefaultName is the profile used when none is requested.
const DefaultName = "default"

// DefaultHorizonDays bounds how far ahead a scan looks.
const DefaultHorizonDays = 30

// Profile describes one kind of scan.
type Profile struct {
	Name        string   `yaml:"name" json:"name"`
	Kind        string   `yaml:"kind" json:"kind"`
	Topic       string   `yaml:"topic" json:"topic,omitempty"`
	City        string   `yaml:"city" json:"city,omitempty"`
	Categories  []string `yaml:"categories" json:"categories,omitempty"`
	HorizonDays int      `yaml:"horizon_days" json:"horizon_days"`
	FeedURL     string   `yaml:"feed_url" json:"feed_url,omitempty"`

	// Instruction replaces the rendered prompt body when set
	Instruction string `yaml:"instruction" json:"instruction,omitempty"`
}

// Default is the built-in profile.
func Default() *Profile {
	return &Profile{
		Name:        DefaultName,
		Kind:        KindLLM,
		Topic:       "technology, startup and innovation events and news",
		City:        "Paris",
		HorizonDays: DefaultHorizonDays,
	}
}

// IsFeed reports whether the profile scans a feed instead of a generator.
func (p *Profile) IsFeed() bool {
	return p.Kind == KindFeed
}

// Render builds the generator instruction for p as of now.
func (p *Profile) Render(now time.Time) string {
	var sb strings.Builder

	if p.Instruction != "" {
		sb.WriteString(strings.TrimSpace(p.Instruction))
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("List upcoming items about ")
		sb.WriteString(nonEmpty(p.Topic, "notable events and news"))
		if p.City != "" {
			sb.WriteString(" in or around ")
			sb.WriteString(p.City)
		}
		horizon := p.HorizonDays
		if horizon <= 0 {
			horizon = DefaultHorizonDays
		}
		fmt.Fprintf(&sb, ", between %s and %s.\n\n",
			now.Format("2 January 2006"), now.AddDate(0, 0, horizon).Format("2 January 2006"))
	}

	cats := p.categories()
	sb.WriteString("Allowed categories: ")
	sb.WriteString(strings.Join(cats, ", "))
	sb.WriteString(".\n\n")

	sb.WriteString(`Return a JSON array where each element has this structure:
[
  {
    "title": "short headline",
    "date": "day and month in words with times, e.g. 24 oct, 19h-21h",
    "location": "venue or source name",
    "category": "one of the allowed categories",
    "impact": "why it matters",
    "action": "what to do about it",
    "description": "two or three sentences",
    "price": "free, or the price as text",
    "url": "canonical link",
    "tags": ["tag"]
  }
]

Rules:
- Write the date as text, never as an ISO timestamp
- Omit items you cannot date
- Do not repeat the same item twice

Return ONLY the JSON array, no other text.`)

	return sb.String()
}

func (p *Profile) categories() []string {
	if len(p.Categories) == 0 {
		out := make([]string, len(record.Categories))
		for i, c := range record.Categories {
			out[i] = string(c)
		}
		return out
	}
	return p.Categories
}

// Set is the loaded profiles keyed by name.
type Set map[string]*Profile

// Get returns the named profile. An empty name selects DefaultName, which
// falls back to the built-in profile unless a file overrides it.
func (s Set) Get(name string) (*Profile, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if p, ok := s[name]; ok {
		return p, true
	}
	if name == DefaultName {
		return Default(), true
	}
	return nil, false
}

// Names returns profile names sorted, always including DefaultName.
func (s Set) Names() []string {
	names := make([]string, 0, len(s)+1)
	if _, ok := s[DefaultName]; !ok {
		names = append(names, DefaultName)
	}
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
