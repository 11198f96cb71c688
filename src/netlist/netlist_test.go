package netlist

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const c17 = `# c17 ISCAS-85
INPUT(1)
INPUT(2)
INPUT(3)
INPUT(6)
INPUT(7)

OUTPUT(22)
OUTPUT(23)

10 = NAND(1, 3)
11 = NAND(3, 6)
16 = NAND(2, 11)
19 = NAND(11, 7)
22 = NAND(10, 16)
23 = NAND(16, 19)
`

const s27 = `INPUT(G0)
INPUT(G1)
OUTPUT(G17)
G5 = DFF(G10)
G6 = DFF(G11)
G14 = NOT(G0)
G10 = NOR(G14, G6)
G11 = OR(G5, G1)
G17 = NOT(G11)
`

func TestParseCombinational(t *testing.T) {
	nl, err := Parse("c17", strings.NewReader(c17))
	require.NoError(t, err)
	assert.Equal(t, 11, nl.Len())
	assert.Len(t, nl.Inputs(), 5)
	assert.Len(t, nl.Outputs(), 2)
	assert.Len(t, nl.Gates(), 6)

	n16, ok := nl.Node("16")
	require.True(t, ok)
	assert.Equal(t, Nand, n16.Type)
	require.Len(t, n16.Inputs, 2)
	assert.Equal(t, "2", n16.Inputs[0].Name)
	assert.Equal(t, "11", n16.Inputs[1].Name)
	assert.Len(t, n16.Outputs, 2)

	// OUTPUT declarations do not change the node type.
	n22, _ := nl.Node("22")
	assert.Equal(t, Nand, n22.Type)
}

func TestParseWiring(t *testing.T) {
	nl, err := Parse("c17", strings.NewReader(c17))
	require.NoError(t, err)
	got := map[string][]string{}
	for _, g := range nl.Gates() {
		for _, in := range g.Inputs {
			got[g.Name] = append(got[g.Name], in.Name)
		}
	}
	want := map[string][]string{
		"10": {"1", "3"},
		"11": {"3", "6"},
		"16": {"2", "11"},
		"19": {"11", "7"},
		"22": {"10", "16"},
		"23": {"16", "19"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("gate inputs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSequentialDFFBecomesPseudoIO(t *testing.T) {
	nl, err := Parse("s27", strings.NewReader(s27))
	require.NoError(t, err)

	names := func(nodes []*Node) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.Name)
		}
		return out
	}
	assert.Equal(t, []string{"G0", "G1", "G5", "G6"}, names(nl.Inputs()))
	assert.Equal(t, []string{"G17", "G10", "G11"}, names(nl.Outputs()))
}

func TestParseGateType(t *testing.T) {
	assert.Equal(t, Buf, ParseGateType("buff"))
	assert.Equal(t, Buf, ParseGateType("BUF"))
	assert.Equal(t, Xnor, ParseGateType("xnor"))
	assert.Equal(t, Unknown, ParseGateType("MUX"))
	assert.Equal(t, "BUFF", Buf.String())
}

func TestParseEmptyInputIsError(t *testing.T) {
	_, err := Parse("bad", strings.NewReader("INPUT(a)\nb = AND(a, )\n"))
	require.Error(t, err)
}

func TestParseFileNamesCircuitByStem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c17.bench")
	require.NoError(t, os.WriteFile(path, []byte(c17), 0o644))
	nl, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c17", nl.Name)
}

func TestSimulatorGateFunctions(t *testing.T) {
	// z is 1 only when a=b=c=1, so it is rare-1 at any reasonable threshold;
	// y = NOT(z) is then rare-0.
	src := "INPUT(a)\nINPUT(b)\nINPUT(c)\nOUTPUT(y)\nz = AND(a, b, c)\ny = NOT(z)\nx = XOR(a, a)\nw = XNOR(a, a)\n"
	nl, err := Parse("t", strings.NewReader(src))
	require.NoError(t, err)
	sim := NewSimulator(nl, 42)
	ones, err := sim.OnesCounts(context.Background(), 4000)
	require.NoError(t, err)

	id := func(name string) int {
		n, ok := nl.Node(name)
		require.True(t, ok)
		return n.ID
	}
	assert.Equal(t, 0, ones[id("x")])
	assert.Equal(t, 4000, ones[id("w")])
	assert.InDelta(t, 500, ones[id("z")], 150)
	assert.Equal(t, 4000, ones[id("z")]+ones[id("y")])

	rare := sim.Classify(ones, 4000, 0.2)
	assert.Equal(t, 800, rare.Threshold)
	assert.Equal(t, Rare1, rare.Values[id("z")])
	assert.Equal(t, Rare0, rare.Values[id("y")])
	assert.Equal(t, Rare1, rare.Values[id("x")])
	assert.Equal(t, Rare0, rare.Values[id("w")])
	assert.Equal(t, NotRare, rare.Values[id("a")])
	assert.Equal(t, 4, rare.Count)
}

func TestSimulatorDeterministicWithSeed(t *testing.T) {
	nl, err := Parse("c17", strings.NewReader(c17))
	require.NoError(t, err)
	a, err := NewSimulator(nl, 7).OnesCounts(context.Background(), 2000)
	require.NoError(t, err)
	b, err := NewSimulator(nl, 7).OnesCounts(context.Background(), 2000)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulatorSequentialAndLoops(t *testing.T) {
	nl, err := Parse("s27", strings.NewReader(s27))
	require.NoError(t, err)
	res, err := NewSimulator(nl, 1).FindRareNodes(context.Background(), 1000, 0.2)
	require.NoError(t, err)
	assert.Len(t, res.Values, nl.Len())

	// the loop is cut at q's read of p, which sees 0: q = OR(0, a) = a, then p = AND(a, a) = a
	loop := "INPUT(a)\np = AND(a, q)\nq = OR(p, a)\n"
	nl2, err := Parse("loop", strings.NewReader(loop))
	require.NoError(t, err)
	ones, err := NewSimulator(nl2, 1).OnesCounts(context.Background(), 500)
	require.NoError(t, err)
	id := func(name string) int {
		nd, ok := nl2.Node(name)
		require.True(t, ok)
		return nd.ID
	}
	a, p, q := ones[id("a")], ones[id("p")], ones[id("q")]
	assert.Positive(t, a)
	assert.Less(t, a, 500)
	assert.Equal(t, a, q)
	assert.Equal(t, a, p)
}

func TestSimulatorHonoursContextAndProgress(t *testing.T) {
	nl, err := Parse("c17", strings.NewReader(c17))
	require.NoError(t, err)
	sim := NewSimulator(nl, 3)
	var calls []int
	sim.Progress = func(done, total int) { calls = append(calls, done) }
	_, err = sim.OnesCounts(context.Background(), 2500)
	require.NoError(t, err)
	assert.Equal(t, []int{1000, 2000, 2500}, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sim.OnesCounts(ctx, 10)
	require.ErrorIs(t, err, context.Canceled)
}
