// Package netio reads and writes the files around a precursor search:
// network descriptions (YAML or JSON), the compound marks file, and
// result documents (XML or YAML).
//
// Errors carry a stack via github.com/pkg/errors and wrap the sentinels
// ErrUnknownFormat, ErrBadDescription and ErrMarksSyntax, or the
// network errors raised while building.
package netio
