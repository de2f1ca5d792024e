// SPDX-License-Identifier: MIT

package netio

import "errors"

// Sentinel errors. Callers match them with errors.Is; the values
// returned by this package carry a stack through github.com/pkg/errors.
var (
	// ErrUnknownFormat is returned for a file extension or format name
	// this package cannot read or write.
	ErrUnknownFormat = errors.New("netio: unknown format")

	// ErrBadDescription reports an inconsistent network description.
	ErrBadDescription = errors.New("netio: invalid network description")

	// ErrMarksSyntax reports a malformed marks file.
	ErrMarksSyntax = errors.New("netio: marks syntax error")
)
