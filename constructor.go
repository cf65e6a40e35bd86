package laymix

import (
	"fmt"
	"strings"
)

// Choice is one option for a layer group in a combination: either a layer
// file or NoLayer, which leaves the group out of that combination.
type Choice struct {
	path string
	none bool
}

// NoLayer is the choice that skips a group.
var NoLayer = Choice{none: true}

func LayerChoice(path string) Choice {
	return Choice{path: path}
}

func (c Choice) IsNone() bool {
	return c.none
}

// Path is the layer file. It is empty for NoLayer.
func (c Choice) Path() string {
	return c.path
}

func (c Choice) String() string {
	if c.none {
		return "<none>"
	}
	return c.path
}

// Part holds the candidate layers of one group for one background.
type Part struct {
	Prefix  string
	Choices []Choice
}

// Constructor is everything needed to render the combinations of one
// background. Parts has one entry per configured prefix, in configuration
// order, possibly with no choices.
type Constructor struct {
	Name  string
	Image string
	Parts []Part
}

// Choices returns the candidates registered for prefix.
func (c Constructor) Choices(prefix string) []Choice {
	for _, p := range c.Parts {
		if p.Prefix == prefix {
			return p.Choices
		}
	}
	return nil
}

func (c Constructor) String() string {
	parts := make([]string, 0, len(c.Parts))
	for _, p := range c.Parts {
		parts = append(parts, fmt.Sprintf("%s:%v", p.Prefix, p.Choices))
	}
	return fmt.Sprintf("%s(%s)[%s]", c.Name, c.Image, strings.Join(parts, " "))
}

// MakeConstructors classifies files with the Mixer's prefixes and builds a
// constructor for every background that has layers.
func (m *Mixer) MakeConstructors(files []string) []Constructor {
	groups, backgrounds := Classify(files, m.prefixes, m.opts.ExactMatch)
	for _, b := range backgrounds {
		m.log.LogDebug(fmt.Sprintf("Treating %s as background", b))
	}
	constructors := m.BuildConstructors(backgrounds, groups)
	m.log.LogDebug(fmt.Sprintf("Got following image constructors: %v", constructors))
	return constructors
}

// BuildConstructors picks, for each background, the layers of every group
// that belong to it. Backgrounds without any layer are skipped with a warning.
func (m *Mixer) BuildConstructors(backgrounds []string, groups []Group) []Constructor {
	var constructors []Constructor
	for _, bg := range backgrounds {
		name := BaseName(bg)
		parts := make([]Part, 0, len(groups))
		withLayers := 0
		for _, g := range groups {
			var layers []string
			if m.opts.ApplyToAll {
				for _, f := range g.Files {
					if f != bg {
						layers = append(layers, f)
					}
				}
			} else {
				layers = FilterByMask(g.Files, name, m.opts.ExactMatch)
			}
			if len(layers) > 0 {
				withLayers++
			}

			choices := make([]Choice, 0, len(layers)+1)
			for _, l := range layers {
				choices = append(choices, LayerChoice(l))
			}
			if m.opts.IncludeBackground {
				choices = append(choices, NoLayer)
			}
			parts = append(parts, Part{Prefix: g.Prefix, Choices: choices})
		}

		if withLayers == 0 {
			m.log.LogWarn(fmt.Sprintf("%s doesn't seem to have any layers, skipping", bg))
			continue
		}
		constructors = append(constructors, Constructor{Name: name, Image: bg, Parts: parts})
	}
	return constructors
}
