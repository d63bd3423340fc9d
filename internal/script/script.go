package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/quill/internal/state"
)

// Mode selects how a step invokes its commands.
type Mode string

// Step modes.
const (
	ModeImmediate Mode = "immediate"
	ModeChain     Mode = "chain"
	ModeCan       Mode = "can"
	ModeCanChain  Mode = "can-chain"
)

// Valid returns true if m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeImmediate, ModeChain, ModeCan, ModeCanChain:
		return true
	}
	return false
}

// Script is a parsed command script.
type Script struct {
	Doc         string           `yaml:"doc"`
	Selection   *state.Selection `yaml:"selection,omitempty"`
	StoredMarks []state.Mark     `yaml:"stored_marks,omitempty"`
	Steps       []Step           `yaml:"steps"`
}

// Step is one group of command invocations.
type Step struct {
	Name     string       `yaml:"name,omitempty"`
	Mode     Mode         `yaml:"mode"`
	Commands []Invocation `yaml:"commands"`
}

// Invocation names a command and its arguments.
type Invocation struct {
	Name string `yaml:"name"`
	Args []any  `yaml:"args,omitempty"`
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	for i := range s.Steps {
		if s.Steps[i].Mode == "" {
			s.Steps[i].Mode = ModeImmediate
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks modes and command names are present.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		if !step.Mode.Valid() {
			return fmt.Errorf("%w: step %d: unknown mode %q", ErrInvalidScript, i, step.Mode)
		}
		for j, inv := range step.Commands {
			if inv.Name == "" {
				return fmt.Errorf("%w: step %d command %d: missing name", ErrInvalidScript, i, j)
			}
		}
	}
	return nil
}

// Names returns every command name the script invokes, in order of
// first use.
func (s *Script) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, step := range s.Steps {
		for _, inv := range step.Commands {
			if !seen[inv.Name] {
				seen[inv.Name] = true
				names = append(names, inv.Name)
			}
		}
	}
	return names
}

// State returns the script's starting state.
func (s *Script) State() *state.State {
	var opts []state.Option
	if s.Selection != nil {
		opts = append(opts, state.WithSelection(*s.Selection))
	}
	if len(s.StoredMarks) > 0 {
		opts = append(opts, state.WithStoredMarks(s.StoredMarks))
	}
	return state.New(state.NewDoc(s.Doc), opts...)
}
