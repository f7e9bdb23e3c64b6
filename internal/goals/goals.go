// Package goals manages daily nutrition goal ranges. Ranges come from an
// optional YAML file and can be hot-reloaded while the service runs; search
// requests may override them per call.
package goals

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Range is an inclusive [min, max] bound for one nutrient, per day.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Ranges holds the goal range for every nutrient the search provider can
// filter on. Units: calories in kcal, everything else in grams.
type Ranges struct {
	Calories Range `yaml:"calories" json:"calories"`
	Carbs    Range `yaml:"carbs" json:"carbs"`
	Protein  Range `yaml:"protein" json:"protein"`
	Fat      Range `yaml:"fat" json:"fat"`
	Fiber    Range `yaml:"fiber" json:"fiber"`
	Sugar    Range `yaml:"sugar" json:"sugar"`
}

// Defaults returns the widest sensible ranges, matching the slider bounds
// the presentation layer starts from.
func Defaults() Ranges {
	return Ranges{
		Calories: Range{Min: 0, Max: 2000},
		Carbs:    Range{Min: 0, Max: 300},
		Protein:  Range{Min: 0, Max: 200},
		Fat:      Range{Min: 0, Max: 150},
		Fiber:    Range{Min: 0, Max: 80},
		Sugar:    Range{Min: 0, Max: 100},
	}
}

// Provider serves the currently active goal ranges. Reads and reloads may
// happen from different goroutines, so access is guarded.
type Provider struct {
	mu     sync.RWMutex
	ranges Ranges
	path   string
}

// NewProvider creates a provider starting from Defaults, overlaid with the
// file at path when it exists. An empty path means defaults only.
func NewProvider(path string) (*Provider, error) {
	p := &Provider{ranges: Defaults(), path: path}
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Current returns a copy of the active ranges.
func (p *Provider) Current() Ranges {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ranges
}

// Path returns the watched file path, empty when file-less.
func (p *Provider) Path() string {
	return p.path
}

// Reload re-reads the goals file and swaps in the parsed ranges. Missing
// fields keep their default values.
func (p *Provider) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("goals: read %s: %w", p.path, err)
	}
	next := Defaults()
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("goals: parse %s: %w", p.path, err)
	}
	p.mu.Lock()
	p.ranges = next
	p.mu.Unlock()
	return nil
}
