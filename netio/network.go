// SPDX-License-Identifier: MIT
// File: network.go
// Role: network description files (YAML, or JSON read as YAML).
//
// Layout:
//
//	compounds:
//	  - {id: A, name: alpha, compartment: c}
//	reactions:
//	  - id: R1
//	    equation: "A + 2 B -> X"     # netgen grammar, id optional
//	  - id: R2
//	    substrates: [{id: X}]
//	    products: [{id: T, coef: 1}]
//	    reversible: true
//	precursors: [A]
//	bootstraps: []
//	targets: [T]
//	forbidden: []
//	boundary: []
//
// Compounds referenced by a reaction but not declared are added with
// their ID as name. A reaction gives either equation or the explicit
// lists, not both.

package netio

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/precursor/netgen"
	"github.com/katalvlaran/precursor/network"
)

// Description is the decoded form of a network file.
type Description struct {
	Compounds  []CompoundSpec `yaml:"compounds"`
	Reactions  []ReactionSpec `yaml:"reactions"`
	Precursors []string       `yaml:"precursors,omitempty"`
	Bootstraps []string       `yaml:"bootstraps,omitempty"`
	Targets    []string       `yaml:"targets,omitempty"`
	Forbidden  []string       `yaml:"forbidden,omitempty"`
	Boundary   []string       `yaml:"boundary,omitempty"`
}

// CompoundSpec declares one compound.
type CompoundSpec struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name,omitempty"`
	Compartment string         `yaml:"compartment,omitempty"`
	Atoms       map[string]int `yaml:"atoms,omitempty"`
}

// ReactionSpec declares one reaction.
type ReactionSpec struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name,omitempty"`
	Equation   string     `yaml:"equation,omitempty"`
	Substrates []TermSpec `yaml:"substrates,omitempty"`
	Products   []TermSpec `yaml:"products,omitempty"`
	Reversible bool       `yaml:"reversible,omitempty"`
	Cofactors  []string   `yaml:"cofactors,omitempty"`
}

// TermSpec is one reaction side entry; a zero Coef means 1.
type TermSpec struct {
	ID   string  `yaml:"id"`
	Coef float64 `yaml:"coef,omitempty"`
}

// DecodeDescription reads a description. Unknown keys are rejected.
func DecodeDescription(r io.Reader) (*Description, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Description
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(ErrBadDescription, "empty document")
		}
		return nil, errors.Wrap(err, "decode network description")
	}

	return &d, nil
}

// EncodeDescription writes d as YAML.
func EncodeDescription(w io.Writer, d *Description) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "encode network description")
	}

	return errors.Wrap(enc.Close(), "encode network description")
}

// Build creates the network described by d.
func (d *Description) Build(opts ...network.Option) (*network.Network, error) {
	net := network.New(opts...)
	for _, c := range d.Compounds {
		name := c.Name
		if name == "" {
			name = c.ID
		}
		cmp := network.Compound{ID: c.ID, Name: name, Compartment: c.Compartment, Atoms: c.Atoms}
		if err := net.AddCompound(cmp, 0); err != nil {
			return nil, errors.Wrapf(err, "compound %q", c.ID)
		}
	}
	for i, rs := range d.Reactions {
		r, rev, err := rs.reaction()
		if err != nil {
			return nil, errors.Wrapf(err, "reaction #%d", i+1)
		}
		for _, t := range append(append([]network.Term(nil), r.Substrates...), r.Products...) {
			if net.HasCompound(t.Compound) {
				continue
			}
			if err := net.AddCompound(network.Compound{ID: t.Compound, Name: t.Compound}, 0); err != nil {
				return nil, errors.Wrapf(err, "reaction %q", r.ID)
			}
		}
		if err := net.AddReaction(r, rev); err != nil {
			return nil, errors.Wrapf(err, "reaction %q", r.ID)
		}
	}
	marks := []struct {
		ids  []string
		flag network.Flag
	}{
		{d.Precursors, network.FlagUserPrecursor},
		{d.Bootstraps, network.FlagBootstrap},
		{d.Targets, network.FlagTarget},
		{d.Forbidden, network.FlagForbidden},
		{d.Boundary, network.FlagBoundary},
	}
	for _, m := range marks {
		for _, id := range m.ids {
			if err := net.SetFlag(id, m.flag, true); err != nil {
				return nil, errors.Wrapf(err, "flag %s on %q", m.flag, id)
			}
		}
	}

	return net, nil
}

func (rs ReactionSpec) reaction() (network.Reaction, bool, error) {
	r := network.Reaction{ID: rs.ID, Name: rs.Name, Cofactors: rs.Cofactors}
	explicit := len(rs.Substrates) > 0 || len(rs.Products) > 0
	switch {
	case rs.Equation != "" && explicit:
		return r, false, errors.Wrapf(ErrBadDescription, "%q: equation and explicit terms", rs.ID)
	case rs.Equation != "":
		eq, err := netgen.ParseEquation(rs.Equation)
		if err != nil {
			return r, false, errors.Wrap(ErrBadDescription, err.Error())
		}
		if eq.ID != "" && r.ID != "" && eq.ID != r.ID {
			return r, false, errors.Wrapf(ErrBadDescription, "id %q disagrees with equation id %q", r.ID, eq.ID)
		}
		if r.ID == "" {
			r.ID = eq.ID
		}
		r.Substrates, r.Products = eq.Substrates, eq.Products

		return r, eq.Reversible || rs.Reversible, nil
	}
	r.Substrates, r.Products = terms(rs.Substrates), terms(rs.Products)

	return r, rs.Reversible, nil
}

func terms(specs []TermSpec) []network.Term {
	out := make([]network.Term, 0, len(specs))
	for _, t := range specs {
		c := t.Coef
		if c == 0 {
			c = 1
		}
		out = append(out, network.Term{Compound: t.ID, Coef: c})
	}

	return out
}

// Describe returns the description of net: live compounds, primary
// reactions (mirrors folded back into reversible entries) and flags.
func Describe(net *network.Network) (*Description, error) {
	d := &Description{}
	for _, c := range net.Compounds() {
		d.Compounds = append(d.Compounds, CompoundSpec{ID: c.ID, Name: c.Name, Compartment: c.Compartment, Atoms: c.Atoms})
		f, err := net.Flags(c.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "compound %q", c.ID)
		}
		if f.Has(network.FlagUserPrecursor) {
			d.Precursors = append(d.Precursors, c.ID)
		}
		if f.Has(network.FlagBootstrap) {
			d.Bootstraps = append(d.Bootstraps, c.ID)
		}
		if f.Has(network.FlagTarget) {
			d.Targets = append(d.Targets, c.ID)
		}
		if f.Has(network.FlagForbidden) {
			d.Forbidden = append(d.Forbidden, c.ID)
		}
		if f.Has(network.FlagBoundary) {
			d.Boundary = append(d.Boundary, c.ID)
		}
	}
	mirrors := make(map[string]bool)
	for _, r := range net.Reactions() {
		if mirrors[r.ID] {
			continue
		}
		rev, mirror, err := net.ReverseOf(r.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "reaction %q", r.ID)
		}
		if mirror {
			mirrors[rev] = true
		}
		d.Reactions = append(d.Reactions, ReactionSpec{
			ID:         r.ID,
			Name:       r.Name,
			Substrates: specs(r.Substrates),
			Products:   specs(r.Products),
			Reversible: mirror,
			Cofactors:  r.Cofactors,
		})
	}

	return d, nil
}

func specs(ts []network.Term) []TermSpec {
	out := make([]TermSpec, len(ts))
	for i, t := range ts {
		out[i] = TermSpec{ID: t.Compound, Coef: t.Coef}
	}

	return out
}

// ReadNetwork loads a description file (.yaml, .yml or .json) and builds
// the network.
func ReadNetwork(path string, opts ...network.Option) (*network.Network, error) {
	if f, err := FormatOf(path); err != nil || f == XML {
		return nil, errors.Wrapf(ErrUnknownFormat, "network file %s", path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open network file")
	}
	defer fh.Close()
	d, err := DecodeDescription(fh)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return d.Build(opts...)
}
