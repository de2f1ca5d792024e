// SPDX-License-Identifier: MIT

package netio

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format names an on-disk encoding.
type Format uint8

const (
	// YAML also reads JSON, which is a subset of YAML 1.2.
	YAML Format = iota
	// JSON is read by the YAML decoder; only descriptions use it.
	JSON
	// XML is the result format of the original tool.
	XML
)

var formatNames = [...]string{"yaml", "json", "xml"}

// String returns "yaml", "json" or "xml".
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}

	return "unknown"
}

// ParseFormat accepts a format name ("yaml", "yml", "json", "xml").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "xml":
		return XML, nil
	}

	return 0, errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// FormatOf derives the format from the extension of path.
func FormatOf(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return 0, errors.Wrapf(ErrUnknownFormat, "%s: no extension", path)
	}

	return ParseFormat(ext)
}
