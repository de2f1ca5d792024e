package netio_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/precursor/netio"
	"github.com/katalvlaran/precursor/network"
	"github.com/katalvlaran/precursor/precursor"
)

const description = `
compounds:
  - {id: A, name: alpha, compartment: c}
  - {id: T, name: target, compartment: c}
reactions:
  - id: R1
    equation: "A + 2 B -> X"
  - id: R2
    substrates: [{id: X}]
    products: [{id: T, coef: 3}]
    reversible: true
precursors: [A, B]
targets: [T]
forbidden: [B]
`

func TestDescriptionBuild(t *testing.T) {
	d, err := netio.DecodeDescription(strings.NewReader(description))
	require.NoError(t, err)
	net, err := d.Build()
	require.NoError(t, err)

	c, err := net.Compound("A")
	require.NoError(t, err)
	assert.Equal(t, "alpha", c.Name)
	assert.Equal(t, "c", c.Compartment)
	assert.True(t, net.HasCompound("X"), "undeclared compounds are added")

	r1, err := net.Reaction("R1")
	require.NoError(t, err)
	assert.Equal(t, []network.Term{{Compound: "A", Coef: 1}, {Compound: "B", Coef: 2}}, r1.Substrates)
	rev, err := net.IsReversible("R2")
	require.NoError(t, err)
	assert.True(t, rev)

	assert.True(t, net.IsPrecursor("A"))
	assert.True(t, net.Is("B", network.FlagForbidden))
	assert.Equal(t, []network.Ref{{ID: "T", Name: "target"}}, net.Targets())
}

func TestDescriptionJSON(t *testing.T) {
	js := `{"compounds": [{"id": "A"}], "reactions": [{"id": "R1", "equation": "A -> T"}], "targets": ["T"]}`
	d, err := netio.DecodeDescription(strings.NewReader(js))
	require.NoError(t, err)
	net, err := d.Build()
	require.NoError(t, err)
	assert.True(t, net.Is("T", network.FlagTarget))
}

func TestDescriptionErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "compounds: []\nmetabolites: []\n",
		"both forms":        "reactions:\n  - {id: R1, equation: 'A -> B', substrates: [{id: A}]}\n",
		"id mismatch":       "reactions:\n  - {id: R1, equation: 'R2: A -> B'}\n",
		"bad equation":      "reactions:\n  - {id: R1, equation: 'A B'}\n",
		"unknown flag":      "reactions:\n  - {id: R1, equation: 'A -> B'}\ntargets: [Q]\n",
		"duplicate":         "reactions:\n  - {id: R1, equation: 'A -> B'}\n  - {id: R1, equation: 'B -> C'}\n",
		"negative coef":     "reactions:\n  - {id: R1, substrates: [{id: A, coef: -1}], products: [{id: B}]}\n",
		"empty description": "",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			d, err := netio.DecodeDescription(strings.NewReader(doc))
			if err == nil {
				_, err = d.Build()
			}
			require.Error(t, err)
		})
	}

	d, err := netio.DecodeDescription(strings.NewReader("reactions:\n  - {id: R1, equation: 'A B'}\n"))
	require.NoError(t, err)
	_, err = d.Build()
	require.ErrorIs(t, err, netio.ErrBadDescription)
}

func TestDescribeRoundTrip(t *testing.T) {
	d, err := netio.DecodeDescription(strings.NewReader(description))
	require.NoError(t, err)
	net, err := d.Build()
	require.NoError(t, err)

	back, err := netio.Describe(net)
	require.NoError(t, err)
	require.Len(t, back.Reactions, 2, "mirror reactions fold back")
	assert.True(t, back.Reactions[1].Reversible)

	var buf bytes.Buffer
	require.NoError(t, netio.EncodeDescription(&buf, back))
	again, err := netio.DecodeDescription(&buf)
	require.NoError(t, err)
	net2, err := again.Build()
	require.NoError(t, err)
	assert.Equal(t, net.NumReactions(), net2.NumReactions())
	assert.Equal(t, net.Precursors(), net2.Precursors())
}

func TestReadNetwork(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(description), 0o600))
	net, err := netio.ReadNetwork(path, network.WithUserDefinedOnly())
	require.NoError(t, err)
	assert.True(t, net.Options().UserDefinedOnly)

	_, err = netio.ReadNetwork(filepath.Join(dir, "net.xml"))
	require.ErrorIs(t, err, netio.ErrUnknownFormat)
	_, err = netio.ReadNetwork(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

const marks = `<?xml version="1.0"?>
<input-compounds>
<species id="I1"/>
</input-compounds>
<PRECURSOR-COMPOUNDS>
  <species id="A" name="alpha"/>
<bootstrap-compounds>
<species id="Z"/>
<target-compounds>
<species id="T"/>
<forbidden-compounds>
<species id="B"/>
<species id="Q"/>
`

func TestParseMarks(t *testing.T) {
	m, err := netio.ParseMarks(strings.NewReader(marks))
	require.NoError(t, err)
	assert.Equal(t, []string{"I1"}, m.Inputs)
	assert.Equal(t, []string{"A"}, m.Precursors)
	assert.Equal(t, []string{"Z"}, m.Bootstraps)
	assert.Equal(t, []string{"T"}, m.Targets)
	assert.Equal(t, []string{"B", "Q"}, m.Forbidden)

	for _, bad := range []string{`<species id="A"/>`, "<precursor-compounds>\n<species name=\"x\"/>", "<reactions>"} {
		_, err = netio.ParseMarks(strings.NewReader(bad))
		assert.ErrorIs(t, err, netio.ErrMarksSyntax, bad)
	}
}

func TestMarksApply(t *testing.T) {
	net := network.New()
	for _, id := range []string{"I1", "A", "B", "Z", "T"} {
		require.NoError(t, net.AddCompound(network.Compound{ID: id, Name: id}, 0))
	}
	m, err := netio.ParseMarks(strings.NewReader(marks))
	require.NoError(t, err)

	err = m.Apply(net)
	require.ErrorIs(t, err, network.ErrCompoundNotFound)
	assert.Contains(t, err.Error(), `"Q"`)

	assert.True(t, net.Is("I1", network.FlagUserPrecursor))
	assert.True(t, net.Is("A", network.FlagUserPrecursor))
	assert.True(t, net.Is("Z", network.FlagBootstrap))
	assert.True(t, net.Is("T", network.FlagTarget))
	assert.True(t, net.Is("B", network.FlagForbidden))
}

func solutions() []*precursor.Set {
	s1 := precursor.Of(network.Ref{ID: "A", Name: "alpha"})
	s1.AddReaction("R1")
	s1.AddCumulated(network.Ref{ID: "X", Name: "X"})
	s2 := precursor.Of(network.Ref{ID: "B", Name: "B"}, network.Ref{ID: "C", Name: "C"})
	s2.AddBootstrap(network.Ref{ID: "Z", Name: "Z"})
	return []*precursor.Set{s1, s2}
}

func TestResultsXML(t *testing.T) {
	net := network.New()
	require.NoError(t, net.AddCompound(network.Compound{ID: "A", Name: "alpha", Compartment: "c"}, 0))

	doc := netio.NewDocument("T", net, solutions(), netio.Detail{Reactions: true})
	var buf bytes.Buffer
	require.NoError(t, netio.Encode(&buf, netio.XML, doc))
	out := buf.String()
	assert.Contains(t, out, `<precursorSets target="T">`)
	assert.Contains(t, out, `<precursorSet id="1">`)
	assert.Contains(t, out, `<source id="A" name="alpha" compartment="c"></source>`)
	assert.Contains(t, out, `<reaction id="R1"></reaction>`)
	assert.NotContains(t, out, "cumulated", "not requested")

	back, err := netio.Decode(&buf, netio.XML)
	require.NoError(t, err)
	assert.Equal(t, doc, back)

	sets := back.Sets()
	require.Len(t, sets, 2)
	assert.Equal(t, []string{"A"}, sets[0].IDs())
	assert.Equal(t, []string{"R1"}, sets[0].Reactions())
	assert.Equal(t, "{B, C}+{Z}", sets[1].String())
	assert.True(t, sets[1].Frozen())
}

func TestResultsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "T.yml")
	doc := netio.NewDocument("T", nil, solutions(), netio.Detail{Reactions: true, Cumulated: true})
	require.NoError(t, netio.WriteResults(path, doc))

	back, err := netio.ReadResults(path)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
	assert.Equal(t, []network.Ref{{ID: "X", Name: "X"}}, back.Sets()[0].Cumulated())

	err = netio.WriteResults(filepath.Join(t.TempDir(), "T.json"), doc)
	require.ErrorIs(t, err, netio.ErrUnknownFormat)
	_, err = netio.ReadResults(filepath.Join(t.TempDir(), "T"))
	require.ErrorIs(t, err, netio.ErrUnknownFormat)
}

func TestFormat(t *testing.T) {
	for in, want := range map[string]netio.Format{"yaml": netio.YAML, ".YML": netio.YAML, "json": netio.JSON, "xml": netio.XML} {
		got, err := netio.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := netio.ParseFormat("sbml")
	require.ErrorIs(t, err, netio.ErrUnknownFormat)
}
