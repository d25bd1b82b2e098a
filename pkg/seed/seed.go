// Package seed loads plant definitions from YAML files for batch
// import. Seed files are an authoring convenience: care intervals
// accept both Go duration syntax ("72h") and the ISO-8601 form the
// store itself uses ("PT72H").
package seed

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/growmygarden/verdant/pkg/codec"
	"github.com/growmygarden/verdant/pkg/core"
)

// File is the root of a seed document.
type File struct {
	Plants []Entry `yaml:"plants"`
}

// Entry is one plant definition.
type Entry struct {
	Name           string `yaml:"name"`
	ScientificName string `yaml:"scientificName,omitempty"`
	Species        string `yaml:"species,omitempty"`
	Notes          string `yaml:"notes,omitempty"`
	Watering       string `yaml:"watering,omitempty"`
	Fertilizing    string `yaml:"fertilizing,omitempty"`
	Trimming       string `yaml:"trimming,omitempty"`
}

// Load parses a seed document and converts every entry into a fresh
// plant. Each plant gets a new identifier; loading the same file twice
// produces distinct plants, it is an import, not a sync.
func Load(r io.Reader) ([]core.Plant, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	plants := make([]core.Plant, 0, len(f.Plants))
	for i, e := range f.Plants {
		p, err := e.plant()
		if err != nil {
			return nil, fmt.Errorf("seed entry %d: %w", i+1, err)
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// LoadFile is Load over a file path.
func LoadFile(path string) ([]core.Plant, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (e Entry) plant() (core.Plant, error) {
	if strings.TrimSpace(e.Name) == "" {
		return core.Plant{}, fmt.Errorf("plant has no name")
	}

	p := core.NewPlant(e.Name)
	p.ScientificName = e.ScientificName
	p.Species = e.Species
	p.Notes = e.Notes

	var err error
	if p.WateringEvery, err = interval(e.Watering); err != nil {
		return core.Plant{}, fmt.Errorf("watering: %w", err)
	}
	if p.FertilizingEvery, err = interval(e.Fertilizing); err != nil {
		return core.Plant{}, fmt.Errorf("fertilizing: %w", err)
	}
	if p.TrimmingEvery, err = interval(e.Trimming); err != nil {
		return core.Plant{}, fmt.Errorf("trimming: %w", err)
	}
	return p, nil
}

// interval parses a care interval in either Go or ISO-8601 form.
func interval(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(s, "P") {
		return codec.ParseISODuration(s)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("interval %q is negative", s)
	}
	return d, nil
}
