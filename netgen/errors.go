// SPDX-License-Identifier: MIT
// Package: precursor/netgen
//
// errors.go: sentinel errors for the netgen package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Constructors attach context with %w and never panic at runtime.
//   • Option constructors (WithX) panic on meaningless input.

package netgen

import "errors"

// ErrTooSmall indicates a size parameter below the constructor minimum.
var ErrTooSmall = errors.New("netgen: parameter too small")

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = errors.New("netgen: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor without WithSeed/WithRand.
var ErrNeedRandSource = errors.New("netgen: rng is required")

// ErrBadEquation indicates an equation line that does not parse.
var ErrBadEquation = errors.New("netgen: malformed equation")

// ErrConstructFailed indicates a nil constructor or a failed network mutation.
var ErrConstructFailed = errors.New("netgen: construction failed")
