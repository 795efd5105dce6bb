package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Generation is a heap region class affected by an event.
type Generation uint8

const (
	Young Generation = iota
	Tenured
	Perm
	Metaspace
	OtherGeneration
)

var generationNames = [...]string{
	Young:           "YOUNG",
	Tenured:         "TENURED",
	Perm:            "PERM",
	Metaspace:       "METASPACE",
	OtherGeneration: "OTHER",
}

func (g Generation) String() string {
	if int(g) < len(generationNames) {
		return generationNames[g]
	}
	return fmt.Sprintf("Generation(%d)", g)
}

// ParseGeneration converts a name produced by String back to a Generation.
func ParseGeneration(s string) (Generation, error) {
	for i, name := range generationNames {
		if strings.EqualFold(name, s) {
			return Generation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown generation %q", s)
}

func (g Generation) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

func (g *Generation) UnmarshalText(b []byte) error {
	v, err := ParseGeneration(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// GenerationSet is a bitset of generations. The zero value is empty.
type GenerationSet uint8

// Generations builds a set from the given members.
func Generations(gs ...Generation) GenerationSet {
	var s GenerationSet
	for _, g := range gs {
		s = s.With(g)
	}
	return s
}

// With returns s plus g.
func (s GenerationSet) With(g Generation) GenerationSet { return s | 1<<g }

// Has reports whether g is a member of s.
func (s GenerationSet) Has(g Generation) bool { return s&(1<<g) != 0 }

// Empty reports whether s has no members.
func (s GenerationSet) Empty() bool { return s == 0 }

// Only reports whether g is the single member of s.
func (s GenerationSet) Only(g Generation) bool { return s == 1<<g }

// Slice returns the members in declaration order.
func (s GenerationSet) Slice() []Generation {
	out := make([]Generation, 0, len(generationNames))
	for i := range generationNames {
		if s.Has(Generation(i)) {
			out = append(out, Generation(i))
		}
	}
	return out
}

func (s GenerationSet) String() string {
	names := make([]string, 0, len(generationNames))
	for _, g := range s.Slice() {
		names = append(names, g.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// MarshalJSON encodes the set as a name list; an empty set is [].
func (s GenerationSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *GenerationSet) UnmarshalJSON(data []byte) error {
	var gs []Generation
	if err := json.Unmarshal(data, &gs); err != nil {
		return err
	}
	*s = Generations(gs...)
	return nil
}
