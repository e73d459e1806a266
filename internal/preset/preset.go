package preset

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/cases"
)

// ErrUnknownPreset is returned by Catalog.Get for ids outside the catalog.
var ErrUnknownPreset = errors.New("unknown preset")

type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Triangle Waveform = "triangle"
	Sawtooth Waveform = "sawtooth"
)

func (w Waveform) Valid() bool {
	switch w {
	case Sine, Square, Triangle, Sawtooth:
		return true
	}
	return false
}

// Envelope holds ADSR values. Attack, Decay and Release are in seconds;
// Sustain is a gain fraction in [0,1], a level rather than a duration.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Duration is the active length of a note shaped by e.
func (e Envelope) Duration() float64 {
	return e.Attack + e.Decay + e.Release
}

type Preset struct {
	ID       string
	Name     string
	Waveform Waveform
	BaseFreq float64
	Envelope Envelope
}

func (p Preset) validate() error {
	if p.ID == "" {
		return errors.New("preset id is empty")
	}
	if !p.Waveform.Valid() {
		return fmt.Errorf("preset %q: invalid waveform %q", p.ID, p.Waveform)
	}
	if !(p.BaseFreq > 0) || math.IsInf(p.BaseFreq, 0) {
		return fmt.Errorf("preset %q: base frequency must be positive and finite, got %v", p.ID, p.BaseFreq)
	}
	env := p.Envelope
	for _, stage := range []struct {
		name string
		v    float64
	}{{"attack", env.Attack}, {"decay", env.Decay}, {"release", env.Release}} {
		if !(stage.v >= 0) || math.IsInf(stage.v, 0) {
			return fmt.Errorf("preset %q: %s must be non-negative and finite, got %v", p.ID, stage.name, stage.v)
		}
	}
	if !(env.Sustain >= 0 && env.Sustain <= 1) {
		return fmt.Errorf("preset %q: sustain must be in [0,1], got %v", p.ID, env.Sustain)
	}
	return nil
}

// Catalog is a read-only table of presets. It is safe for concurrent use
// because nothing mutates it after NewCatalog returns.
type Catalog struct {
	presets map[string]Preset
	order   []string
}

func NewCatalog(presets ...Preset) (*Catalog, error) {
	c := &Catalog{presets: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		if err := p.validate(); err != nil {
			return nil, err
		}
		key := foldID(p.ID)
		if _, dup := c.presets[key]; dup {
			return nil, fmt.Errorf("duplicate preset id %q", p.ID)
		}
		c.presets[key] = p
		c.order = append(c.order, key)
	}
	return c, nil
}

func (c *Catalog) Get(id string) (Preset, error) {
	p, ok := c.presets[foldID(id)]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
	}
	return p, nil
}

// IDs returns preset ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	for i, key := range c.order {
		ids[i] = c.presets[key].ID
	}
	return ids
}

func (c *Catalog) All() []Preset {
	out := make([]Preset, len(c.order))
	for i, key := range c.order {
		out[i] = c.presets[key]
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }

func foldID(id string) string {
	return cases.Fold().String(id)
}
