package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/radar/internal/record"
)

// Loader reads profiles from a directory of *.yaml / *.yml files.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

// LoadAll loads every profile file. A missing directory yields an empty Set.
func (l *Loader) LoadAll() (Set, error) {
	set := make(Set)

	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return set, nil
	}

	files, err := filepath.Glob(filepath.Join(l.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		p, err := loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
		if err := Validate(p); err != nil {
			return nil, fmt.Errorf("invalid profile %s: %w", file, err)
		}
		if _, dup := set[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile name %q in %s", p.Name, file)
		}

		set[p.Name] = p
		l.logger.Debug("loaded profile", "name", p.Name, "file", file)
	}

	return set, nil
}

func loadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&p)
	return &p, nil
}

func setDefaults(p *Profile) {
	p.Name = strings.TrimSpace(p.Name)
	p.Kind = strings.ToLower(strings.TrimSpace(p.Kind))
	if p.Kind == "" {
		p.Kind = KindLLM
	}
	if p.HorizonDays == 0 {
		p.HorizonDays = DefaultHorizonDays
	}
	for i, c := range p.Categories {
		p.Categories[i] = strings.ToLower(strings.TrimSpace(c))
	}
}

// Validate checks a profile after defaults are applied.
func Validate(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	switch p.Kind {
	case KindLLM:
	case KindFeed:
		if strings.TrimSpace(p.FeedURL) == "" {
			return fmt.Errorf("feed_url is required for feed profiles")
		}
	default:
		return fmt.Errorf("unknown profile kind: %s", p.Kind)
	}
	if p.HorizonDays < 0 {
		return fmt.Errorf("horizon_days must be non-negative")
	}
	for i, c := range p.Categories {
		if !record.Category(c).Valid() {
			return fmt.Errorf("invalid category at index %d: %s", i, c)
		}
	}
	return nil
}
