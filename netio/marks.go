// SPDX-License-Identifier: MIT
// File: marks.go
// Role: the compound marks file of the original tool.
//
//	<precursor-compounds>
//	<species id="M_glc_e"/>
//	</precursor-compounds>
//	<target-compounds>
//	<species id="M_atp_c"/>
//
// Section tags open a section; closing tags and blank lines are ignored.
// Every <species> line adds its id attribute to the open section.

package netio

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/katalvlaran/precursor/network"
)

// Marks lists compound IDs per section.
type Marks struct {
	// Inputs are compounds supplied to the organism; they act as
	// user-defined precursors.
	Inputs     []string
	Bootstraps []string
	Precursors []string
	Targets    []string
	Forbidden  []string
}

var speciesID = regexp.MustCompile(`\bid\s*=\s*"([^"]*)"`)

// ParseMarks reads a marks file.
func ParseMarks(r io.Reader) (*Marks, error) {
	m := &Marks{}
	sections := map[string]*[]string{
		"<input-compounds>":     &m.Inputs,
		"<bootstrap-compounds>": &m.Bootstraps,
		"<precursor-compounds>": &m.Precursors,
		"<target-compounds>":    &m.Targets,
		"<forbidden-compounds>": &m.Forbidden,
	}
	var cur *[]string
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "</") || strings.HasPrefix(line, "<?"):
			continue
		case strings.HasPrefix(line, "<species"):
			if cur == nil {
				return nil, errors.Wrapf(ErrMarksSyntax, "line %d: species outside a section", n)
			}
			sub := speciesID.FindStringSubmatch(line)
			if sub == nil || sub[1] == "" {
				return nil, errors.Wrapf(ErrMarksSyntax, "line %d: species without id", n)
			}
			*cur = append(*cur, sub[1])
		default:
			sec, ok := sections[strings.ToLower(line)]
			if !ok {
				return nil, errors.Wrapf(ErrMarksSyntax, "line %d: unexpected %q", n, line)
			}
			cur = sec
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read marks")
	}

	return m, nil
}

// ReadMarks parses the marks file at path.
func ReadMarks(path string) (*Marks, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open marks file")
	}
	defer fh.Close()
	m, err := ParseMarks(fh)

	return m, errors.Wrap(err, path)
}

// Apply sets the flag of every section on net. Unknown IDs are skipped;
// the returned error joins one network.ErrCompoundNotFound per skipped ID.
func (m *Marks) Apply(net *network.Network) error {
	var errs []error
	for _, sec := range []struct {
		name string
		ids  []string
		flag network.Flag
	}{
		{"input", m.Inputs, network.FlagUserPrecursor},
		{"precursor", m.Precursors, network.FlagUserPrecursor},
		{"bootstrap", m.Bootstraps, network.FlagBootstrap},
		{"forbidden", m.Forbidden, network.FlagForbidden},
		{"target", m.Targets, network.FlagTarget},
	} {
		for _, id := range sec.ids {
			if err := net.SetFlag(id, sec.flag, true); err != nil {
				errs = append(errs, fmt.Errorf("%s compound %q: %w", sec.name, id, err))
			}
		}
	}

	return stderrors.Join(errs...)
}
