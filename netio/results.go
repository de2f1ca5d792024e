// SPDX-License-Identifier: MIT
// File: results.go
// Role: result documents, written as XML or YAML and read back by the
//       check command.
//
// XML form:
//
//	<precursorSets target="T">
//		<precursorSet id="1">
//			<source id="A" name="alpha" compartment="c"/>
//			<bootstrap id="Z" name="Z" compartment=""/>
//			<reaction id="R1"/>
//			<cumulated id="X" name="X" compartment=""/>
//		</precursorSet>
//	</precursorSets>

package netio

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

// Document holds the solutions of one target.
type Document struct {
	Target    string     `yaml:"target"`
	Solutions []Solution `yaml:"solutions"`
}

// Solution is one precursor set.
type Solution struct {
	Precursors []Compound `yaml:"precursors"`
	Bootstraps []Compound `yaml:"bootstraps,omitempty"`
	Reactions  []string   `yaml:"reactions,omitempty"`
	Cumulated  []Compound `yaml:"cumulated,omitempty"`
}

// Compound identifies a compound in a result file.
type Compound struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Compartment string `yaml:"compartment,omitempty"`
}

// Detail selects the optional parts of a solution to record.
type Detail struct {
	Reactions bool
	Cumulated bool
}

// NewDocument converts sets into a document. Compartments are looked up
// in net when it is non-nil.
func NewDocument(target string, net *network.Network, sets []*precursor.Set, d Detail) *Document {
	doc := &Document{Target: target, Solutions: make([]Solution, 0, len(sets))}
	conv := func(refs []network.Ref) []Compound {
		if len(refs) == 0 {
			return nil
		}
		out := make([]Compound, 0, len(refs))
		for _, r := range refs {
			c := Compound{ID: r.ID, Name: r.Name}
			if net != nil {
				if cmp, err := net.Compound(r.ID); err == nil {
					c.Compartment = cmp.Compartment
				}
			}
			out = append(out, c)
		}
		return out
	}
	for _, s := range sets {
		sol := Solution{Precursors: conv(s.Precursors()), Bootstraps: conv(s.Bootstraps())}
		if rs := s.Reactions(); d.Reactions && len(rs) > 0 {
			sol.Reactions = rs
		}
		if d.Cumulated {
			sol.Cumulated = conv(s.Cumulated())
		}
		doc.Solutions = append(doc.Solutions, sol)
	}

	return doc
}

// Sets rebuilds the frozen precursor sets of d.
func (d *Document) Sets() []*precursor.Set {
	out := make([]*precursor.Set, 0, len(d.Solutions))
	for _, sol := range d.Solutions {
		s := precursor.New()
		for _, c := range sol.Precursors {
			s.AddPrecursor(c.ref())
		}
		for _, c := range sol.Bootstraps {
			s.AddBootstrap(c.ref())
		}
		for _, id := range sol.Reactions {
			s.AddReaction(id)
		}
		for _, c := range sol.Cumulated {
			s.AddCumulated(c.ref())
		}
		s.Freeze()
		out = append(out, s)
	}

	return out
}

func (c Compound) ref() network.Ref {
	name := c.Name
	if name == "" {
		name = c.ID
	}

	return network.Ref{ID: c.ID, Name: name}
}

type xmlDocument struct {
	XMLName xml.Name      `xml:"precursorSets"`
	Target  string        `xml:"target,attr,omitempty"`
	Sets    []xmlSolution `xml:"precursorSet"`
}

type xmlSolution struct {
	ID         int           `xml:"id,attr"`
	Sources    []xmlCompound `xml:"source"`
	Bootstraps []xmlCompound `xml:"bootstrap"`
	Reactions  []xmlReaction `xml:"reaction"`
	Cumulated  []xmlCompound `xml:"cumulated"`
}

type xmlCompound struct {
	ID          string `xml:"id,attr"`
	Name        string `xml:"name,attr"`
	Compartment string `xml:"compartment,attr"`
}

type xmlReaction struct {
	ID string `xml:"id,attr"`
}

func toXML(cs []Compound) []xmlCompound {
	out := make([]xmlCompound, len(cs))
	for i, c := range cs {
		out[i] = xmlCompound(c)
	}

	return out
}

func fromXML(cs []xmlCompound) []Compound {
	if len(cs) == 0 {
		return nil
	}
	out := make([]Compound, len(cs))
	for i, c := range cs {
		out[i] = Compound(c)
	}

	return out
}

// Encode writes d in format f (XML or YAML).
func Encode(w io.Writer, f Format, d *Document) error {
	switch f {
	case XML:
		x := xmlDocument{Target: d.Target, Sets: make([]xmlSolution, len(d.Solutions))}
		for i, sol := range d.Solutions {
			xs := xmlSolution{
				ID:         i + 1,
				Sources:    toXML(sol.Precursors),
				Bootstraps: toXML(sol.Bootstraps),
				Cumulated:  toXML(sol.Cumulated),
			}
			for _, r := range sol.Reactions {
				xs.Reactions = append(xs.Reactions, xmlReaction{ID: r})
			}
			x.Sets[i] = xs
		}
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return errors.Wrap(err, "write xml header")
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "\t")
		if err := enc.Encode(x); err != nil {
			return errors.Wrap(err, "encode xml results")
		}
		_, err := io.WriteString(w, "\n")

		return errors.Wrap(err, "encode xml results")

	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return errors.Wrap(err, "encode yaml results")
		}

		return errors.Wrap(enc.Close(), "encode yaml results")
	}

	return errors.Wrapf(ErrUnknownFormat, "results as %s", f)
}

// Decode reads a document in format f (XML or YAML).
func Decode(r io.Reader, f Format) (*Document, error) {
	switch f {
	case XML:
		var x xmlDocument
		if err := xml.NewDecoder(r).Decode(&x); err != nil {
			return nil, errors.Wrap(err, "decode xml results")
		}
		d := &Document{Target: x.Target, Solutions: make([]Solution, 0, len(x.Sets))}
		for _, xs := range x.Sets {
			sol := Solution{
				Precursors: fromXML(xs.Sources),
				Bootstraps: fromXML(xs.Bootstraps),
				Cumulated:  fromXML(xs.Cumulated),
			}
			for _, r := range xs.Reactions {
				sol.Reactions = append(sol.Reactions, r.ID)
			}
			d.Solutions = append(d.Solutions, sol)
		}
		return d, nil

	case YAML:
		var d Document
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			return nil, errors.Wrap(err, "decode yaml results")
		}
		return &d, nil
	}

	return nil, errors.Wrapf(ErrUnknownFormat, "results as %s", f)
}

// WriteResults writes d to path in the format of its extension.
func WriteResults(path string, d *Document) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if f == JSON {
		return errors.Wrapf(ErrUnknownFormat, "results as %s", f)
	}
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create results file")
	}
	if err := Encode(fh, f, d); err != nil {
		fh.Close()
		return errors.Wrap(err, path)
	}

	return errors.Wrap(fh.Close(), path)
}

// ReadResults reads the document at path in the format of its extension.
func ReadResults(path string) (*Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open results file")
	}
	defer fh.Close()
	d, err := Decode(fh, f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	return d, nil
}
