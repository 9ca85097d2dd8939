package ops

import (
	"strings"
	"time"

	"github.com/hpungsan/radar/internal/config"
	"github.com/hpungsan/radar/internal/errors"
	"github.com/hpungsan/radar/internal/feedsource"
	"github.com/hpungsan/radar/internal/generator"
	"github.com/hpungsan/radar/internal/profile"
)

// ScanRequest names what to scan. FeedURL bypasses profiles entirely.
type ScanRequest struct {
	Profile     string `json:"profile,omitempty"`
	Instruction string `json:"instruction,omitempty"`
	FeedURL     string `json:"feed_url,omitempty"`
}

// Resolver turns a ScanRequest into a source and the input for Scan.
type Resolver struct {
	Config   *config.Config
	Profiles profile.Set

	// Optional overrides; nil uses the wall clock, the Anthropic client and
	// the gofeed source.
	Now          func() time.Time
	NewGenerator func(config.GeneratorConfig) (generator.Generator, error)
	NewFeed      func(url string, loc *time.Location) Source
}

// Resolve picks the source for req.
func (r *Resolver) Resolve(req ScanRequest) (Source, ScanInput, error) {
	loc := r.Config.Location()

	if feedURL := strings.TrimSpace(req.FeedURL); feedURL != "" {
		name := strings.TrimSpace(req.Profile)
		if name == "" {
			name = profile.KindFeed
		}
		return r.feed(feedURL, loc), ScanInput{Profile: name}, nil
	}

	p, ok := r.Profiles.Get(req.Profile)
	if !ok {
		return nil, ScanInput{}, errors.NewNotFound("profile", strings.TrimSpace(req.Profile))
	}
	if p.IsFeed() {
		return r.feed(p.FeedURL, loc), ScanInput{Profile: p.Name}, nil
	}

	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		instruction = p.Render(r.now().In(loc))
	}

	newGen := r.NewGenerator
	if newGen == nil {
		newGen = func(cfg config.GeneratorConfig) (generator.Generator, error) {
			return generator.NewAnthropic(cfg)
		}
	}
	gen, err := newGen(r.Config.Generator)
	if err != nil {
		return nil, ScanInput{}, errors.NewInvalidRequest(err.Error())
	}

	src := &generator.Source{Generator: gen, Timeout: r.Config.GeneratorTimeout()}
	return src, ScanInput{Profile: p.Name, Instruction: instruction}, nil
}

func (r *Resolver) feed(url string, loc *time.Location) Source {
	if r.NewFeed != nil {
		return r.NewFeed(url, loc)
	}
	return feedsource.New(url, loc)
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
