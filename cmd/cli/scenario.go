package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"simrng/app"
	"simrng/domain/dist"
)

// Scenario is a reproducible generation plus the evaluation to run on it.
//
//	seed: 42
//	count: 10000
//	source: lcg
//	distribution:
//	  kind: normal
//	  mean: 0
//	  sd: 1
//	intervals: 20
//	alpha: 0.05
type Scenario struct {
	Seed         uint64          `yaml:"seed"`
	Count        int             `yaml:"count"`
	Source       string          `yaml:"source"`
	Distribution dist.Descriptor `yaml:"distribution"`
	Intervals    int             `yaml:"intervals"`
	Alpha        float64         `yaml:"alpha"`
}

// Request returns the generation request of the scenario.
func (s Scenario) Request() app.GenerateRequest {
	return app.GenerateRequest{
		Seed:         s.Seed,
		Count:        s.Count,
		Source:       s.Source,
		Distribution: s.Distribution,
	}
}

func loadScenario(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, err
	}
	defer f.Close()
	return decodeScenario(f)
}

func decodeScenario(r io.Reader) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("invalid scenario: %w", err)
	}
	s.Distribution = s.Distribution.Normalize()
	if err := s.Distribution.Validate(); err != nil {
		return Scenario{}, err
	}
	if s.Intervals < 1 {
		return Scenario{}, fmt.Errorf("invalid scenario: intervals must be at least 1")
	}
	return s, nil
}
