package sim

import (
	"fmt"

	"github.com/jdangerx/cyclus/sim/exchange"
	"github.com/jdangerx/cyclus/sim/num"
)

// Material is a quantity of matter with an isotopic composition. Only its
// quantity feeds the exchange core; composition rides along for the agents.
type Material struct {
	qty  float64
	comp *Composition
}

// NewMaterial returns qty units with the given composition.
func NewMaterial(qty float64, comp *Composition) *Material {
	return &Material{qty: qty, comp: comp}
}

// Quantity implements exchange.Resource.
func (m *Material) Quantity() float64 { return m.qty }

// Composition returns the shared composition.
func (m *Material) Composition() *Composition { return m.comp }

// Extract splits off qty units into a new material with the same
// composition. Extracting more than is present (beyond tolerance) fails.
func (m *Material) Extract(qty float64) (*Material, error) {
	if qty < 0 {
		return nil, fmt.Errorf("cannot extract negative quantity %v", qty)
	}
	if num.DoubleNeg(m.qty - qty) {
		return nil, fmt.Errorf("cannot extract %v from %v units", qty, m.qty)
	}
	m.qty -= qty
	if m.qty < 0 {
		m.qty = 0
	}
	return &Material{qty: qty, comp: m.comp}, nil
}

// Absorb combines other into m, blending compositions weighted by
// quantity. other is emptied.
func (m *Material) Absorb(other *Material) error {
	mixed, err := blend(m.comp, m.qty, other.comp, other.qty)
	if err != nil {
		return err
	}
	m.comp = mixed
	m.qty += other.qty
	other.qty = 0
	return nil
}

// Product is an opaque resource: a quantity with a quality label and no
// internal structure.
type Product struct {
	qty     float64
	quality string
}

// NewProduct returns qty units of the given quality.
func NewProduct(qty float64, quality string) *Product {
	return &Product{qty: qty, quality: quality}
}

// Quantity implements exchange.Resource.
func (p *Product) Quantity() float64 { return p.qty }

// Quality returns the quality label.
func (p *Product) Quality() string { return p.quality }

// Absorb combines other into p. Qualities must match.
func (p *Product) Absorb(other *Product) error {
	if p.quality != other.quality {
		return fmt.Errorf("cannot absorb quality %q into %q", other.quality, p.quality)
	}
	p.qty += other.qty
	other.qty = 0
	return nil
}

// SquashMaterials combines all materials in ms into a single material.
func SquashMaterials(ms []*Material) (*Material, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("nothing to squash")
	}
	out := NewMaterial(ms[0].qty, ms[0].comp)
	for _, m := range ms[1:] {
		if err := out.Absorb(NewMaterial(m.qty, m.comp)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SquashProducts combines all products in ps into a single product.
func SquashProducts(ps []*Product) (*Product, error) {
	if len(ps) == 0 {
		return nil, fmt.Errorf("nothing to squash")
	}
	out := NewProduct(ps[0].qty, ps[0].quality)
	for _, p := range ps[1:] {
		if err := out.Absorb(NewProduct(p.qty, p.quality)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var (
	_ exchange.Resource = (*Material)(nil)
	_ exchange.Resource = (*Product)(nil)
)
