// Package scenario replays scripted cache sessions described in YAML files and
// reports what the cache did at every step.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Op string

const (
	OpSave       Op = "save"
	OpGet        Op = "get"
	OpPeek       Op = "peek"
	OpDelete     Op = "delete"
	OpExpectKeys Op = "expect_keys"
	OpClear      Op = "clear"
)

var (
	ErrUnknownOp   = errors.New("scenario: unknown op")
	ErrInvalidStep = errors.New("scenario: invalid step")
)

// Step is one scripted operation.
//
// Want applies to get and peek and asserts the returned value; Miss asserts
// the key is absent. Keys applies to expect_keys and lists resident keys from
// least to most recently touched.
type Step struct {
	Op    Op       `yaml:"op"`
	Key   string   `yaml:"key,omitempty"`
	Value string   `yaml:"value,omitempty"`
	Want  *string  `yaml:"want,omitempty"`
	Miss  bool     `yaml:"miss,omitempty"`
	Keys  []string `yaml:"keys,omitempty"`
}

// Scenario is a named list of steps run against one fresh cache.
type Scenario struct {
	Name string `yaml:"name"`
	// Capacity of the cache; zero means the runner's default.
	Capacity int    `yaml:"capacity,omitempty"`
	Steps    []Step `yaml:"steps"`
}

// Parse decodes and validates a scenario document. Unknown fields are
// rejected so that typos in step keys do not pass silently.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a scenario from path. A scenario without a name is named
// after the file.
func LoadFile(path string) (*Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// LoadFiles loads every path in order, stopping at the first failure.
func LoadFiles(paths []string) ([]*Scenario, error) {
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (s *Scenario) Validate() error {
	if s.Capacity < 0 {
		return fmt.Errorf("%w: capacity %d is negative", ErrInvalidStep, s.Capacity)
	}
	for i, st := range s.Steps {
		switch st.Op {
		case OpSave, OpGet, OpPeek, OpDelete:
			if st.Key == "" {
				return fmt.Errorf("%w: step %d (%s) needs a key", ErrInvalidStep, i+1, st.Op)
			}
			if st.Want != nil && st.Miss {
				return fmt.Errorf("%w: step %d sets both want and miss", ErrInvalidStep, i+1)
			}
		case OpExpectKeys, OpClear:
		default:
			return fmt.Errorf("%w %q at step %d", ErrUnknownOp, st.Op, i+1)
		}
	}
	return nil
}
