// SPDX-License-Identifier: MIT
// Package: precursor/netgen
//
// impl_equations.go: textual reaction equations.
//
// Grammar (whitespace-insensitive):
//   line     = id ":" side arrow side
//   arrow    = "->" | "<->"
//   side     = "" | term { "+" term }
//   term     = [ coef ] compound        (coef: positive number, default 1)
// Example: "R1: A + 2 B -> X", "R2: X <-> Y", "UP: -> A".

package netgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/precursor/network"
)

const methodEquations = "Equations"

// Equation is one parsed reaction line.
type Equation struct {
	ID         string
	Substrates []network.Term
	Products   []network.Term
	Reversible bool
}

// ParseEquation parses "id: side -> side". With the id omitted ("A -> B")
// ParseEquation returns an Equation with an empty ID.
func ParseEquation(line string) (Equation, error) {
	var eq Equation
	body := line
	if i := strings.Index(line, ":"); i >= 0 {
		eq.ID = strings.TrimSpace(line[:i])
		body = line[i+1:]
	}
	arrow := "->"
	if strings.Contains(body, "<->") {
		arrow, eq.Reversible = "<->", true
	}
	left, right, ok := strings.Cut(body, arrow)
	if !ok {
		return eq, fmt.Errorf("%q: missing arrow: %w", line, ErrBadEquation)
	}
	var err error
	if eq.Substrates, err = parseSide(left); err != nil {
		return eq, fmt.Errorf("%q: %w", line, err)
	}
	if eq.Products, err = parseSide(right); err != nil {
		return eq, fmt.Errorf("%q: %w", line, err)
	}
	if len(eq.Substrates) == 0 && len(eq.Products) == 0 {
		return eq, fmt.Errorf("%q: empty reaction: %w", line, ErrBadEquation)
	}

	return eq, nil
}

func parseSide(s string) ([]network.Term, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []network.Term
	for _, raw := range strings.Split(s, "+") {
		f := strings.Fields(raw)
		switch len(f) {
		case 1:
			out = append(out, network.Term{Compound: f[0], Coef: 1})
		case 2:
			c, err := strconv.ParseFloat(f[0], 64)
			if err != nil || c <= 0 {
				return nil, fmt.Errorf("coefficient %q: %w", f[0], ErrBadEquation)
			}
			out = append(out, network.Term{Compound: f[1], Coef: c})
		default:
			return nil, fmt.Errorf("term %q: %w", strings.TrimSpace(raw), ErrBadEquation)
		}
	}

	return out, nil
}

// Equations adds one reaction per line. Lines without an id are named
// "E<i>" after their position. Missing compounds are created.
func Equations(lines ...string) Constructor {
	return func(n *network.Network, _ genConfig) error {
		for i, line := range lines {
			eq, err := ParseEquation(line)
			if err != nil {
				return fmt.Errorf("%s: %w", methodEquations, err)
			}
			if eq.ID == "" {
				eq.ID = "E" + strconv.Itoa(i)
			}
			if err = addReaction(n, eq.ID, eq.Substrates, eq.Products, eq.Reversible); err != nil {
				return fmt.Errorf("%s: %w", methodEquations, err)
			}
		}
		return nil
	}
}
