package laymix

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/setanarut/laymix/utils"
	"gonum.org/v1/gonum/stat/combin"
)

// Variant is one rendered combination of a constructor.
type Variant struct {
	// Position in product order, starting at 0.
	Index int
	// Output name without extension.
	Name string
	// Layer files used, bottom to top. NoLayer choices are left out.
	Layers []string
	Image  image.Image
}

// Generate renders every combination of c into the save directory and
// returns the number of images written.
func (m *Mixer) Generate(c Constructor) (int, error) {
	m.log.LogDebug(fmt.Sprintf("Building %s", c.Name))
	count := 0
	err := m.Compose(c, func(v Variant) error {
		filename := filepath.Join(m.opts.SaveDir, v.Name+".png")
		if err := m.save(v.Image, filename); err != nil {
			return err
		}
		count++
		return nil
	})
	m.log.LogDebug(fmt.Sprintf("%s has made %d images total", c.Name, count))
	return count, err
}

// Compose renders the Cartesian product of c's non-empty groups, the last
// group varying fastest, and passes each result to fn in order. Groups
// without choices do not take part in the product. Decoded layers are shared
// between combinations and released when Compose returns.
func (m *Mixer) Compose(c Constructor, fn func(Variant) error) error {
	var axes [][]Choice
	for _, p := range c.Parts {
		if len(p.Choices) > 0 {
			axes = append(axes, p.Choices)
		}
	}
	lens := make([]int, len(axes))
	for i, a := range axes {
		lens[i] = len(a)
	}

	cache := utils.NewImageCache(m.load)
	defer cache.Release()

	background, err := cache.Get(c.Image)
	if err != nil {
		return err
	}

	gen := combin.NewCartesianGenerator(lens)
	sub := make([]int, len(lens))
	tuple := make([]Choice, len(lens))
	for index := 0; gen.Next(); index++ {
		sub = gen.Product(sub)
		for axis, i := range sub {
			tuple[axis] = axes[axis][i]
		}

		canvas := utils.NewCanvas(background)
		var layers []string
		for _, choice := range tuple {
			if choice.IsNone() {
				continue
			}
			layer, err := cache.Get(choice.Path())
			if err != nil {
				return err
			}
			if err := utils.Composite(canvas, layer); err != nil {
				return fmt.Errorf("composite %s onto %s: %w", choice.Path(), c.Image, err)
			}
			layers = append(layers, choice.Path())
		}

		var img image.Image = canvas
		if m.matte != nil {
			img = utils.Flatten(canvas, m.matte)
		}
		v := Variant{
			Index:  index,
			Name:   m.variantName(c.Name, index, layers),
			Layers: layers,
			Image:  img,
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// variantName is "{name}{delim}{index}", followed by "{delim}{part}" for
// every layer when KeepNames is set.
func (m *Mixer) variantName(name string, index int, layers []string) string {
	d := m.opts.Delimiter
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(d)
	sb.WriteString(strconv.Itoa(index))
	if m.opts.KeepNames {
		for _, l := range layers {
			sb.WriteString(d)
			sb.WriteString(uniquePart(BaseName(l), name, d))
		}
	}
	return sb.String()
}

// uniquePart strips the background name from a layer name, leaving what
// distinguishes the layer. It falls back to the whole layer name.
func uniquePart(layer, background, delim string) string {
	rest := layer
	if i := indexFold(layer, background); i >= 0 {
		rest = layer[:i] + layer[i+len(background):]
	}
	rest = strings.Trim(rest, delim+" _-.")
	if rest == "" {
		return layer
	}
	return rest
}

func indexFold(s, substr string) int {
	if substr == "" {
		return -1
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
