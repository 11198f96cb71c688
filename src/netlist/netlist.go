// Package netlist parses ISCAS-style .bench gate-level netlists.
//
// Nodes are created on first reference (as a gate output, a gate input, or an INPUT/OUTPUT
// declaration) and numbered in that order. DFF outputs are treated as pseudo-primary inputs and
// the signals driving a DFF as pseudo-primary outputs, so sequential circuits can be simulated
// one combinational frame at a time.
package netlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// GateType is the logic function of a node.
type GateType int

const (
	Unknown GateType = iota
	Input
	Output
	And
	Nand
	Or
	Nor
	Xor
	Xnor
	Not
	Buf
	DFF
)

var gateNames = map[GateType]string{
	Unknown: "UNKNOWN",
	Input:   "INPUT",
	Output:  "OUTPUT",
	And:     "AND",
	Nand:    "NAND",
	Or:      "OR",
	Nor:     "NOR",
	Xor:     "XOR",
	Xnor:    "XNOR",
	Not:     "NOT",
	Buf:     "BUFF",
	DFF:     "DFF",
}

func (g GateType) String() string {
	if s, ok := gateNames[g]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseGateType maps a gate keyword (case-insensitive) to its GateType. BUF and BUFF are synonyms.
func ParseGateType(s string) GateType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INPUT":
		return Input
	case "OUTPUT":
		return Output
	case "BUF", "BUFF":
		return Buf
	case "NOT":
		return Not
	case "AND":
		return And
	case "NAND":
		return Nand
	case "OR":
		return Or
	case "NOR":
		return Nor
	case "XOR":
		return Xor
	case "XNOR":
		return Xnor
	case "DFF":
		return DFF
	}
	return Unknown
}

// Node is a signal in the netlist, named after the gate that drives it.
type Node struct {
	Name    string
	Type    GateType
	ID      int
	Inputs  []*Node
	Outputs []*Node
}

// Netlist is a parsed circuit.
type Netlist struct {
	Name string

	inputs  []*Node
	outputs []*Node
	gates   []*Node
	all     []*Node
	byName  map[string]*Node
}

// New returns an empty netlist.
func New(name string) *Netlist {
	return &Netlist{Name: name, byName: map[string]*Node{}}
}

// Inputs returns primary inputs followed (in file order) by DFF pseudo-inputs.
func (n *Netlist) Inputs() []*Node { return n.inputs }

// Outputs returns primary outputs and DFF-driving pseudo-outputs.
func (n *Netlist) Outputs() []*Node { return n.outputs }

// Gates returns every node defined by a gate assignment, DFFs included.
func (n *Netlist) Gates() []*Node { return n.gates }

// Nodes returns all nodes indexed by ID.
func (n *Netlist) Nodes() []*Node { return n.all }

// Len is the total node count.
func (n *Netlist) Len() int { return len(n.all) }

// Node looks up a node by name.
func (n *Netlist) Node(name string) (*Node, bool) {
	nd, ok := n.byName[name]
	return nd, ok
}

func (n *Netlist) getOrCreate(name string) *Node {
	if nd, ok := n.byName[name]; ok {
		return nd
	}
	nd := &Node{Name: name, ID: len(n.all)}
	n.all = append(n.all, nd)
	n.byName[name] = nd
	return nd
}

var (
	inputRe  = regexp.MustCompile(`^INPUT\s*\((.+)\)$`)
	outputRe = regexp.MustCompile(`^OUTPUT\s*\((.+)\)$`)
	gateRe   = regexp.MustCompile(`^(.+?)\s*=\s*([A-Za-z]+)\s*\((.+)\)$`)
)

// Parse reads a .bench netlist. Lines that match none of the INPUT/OUTPUT/gate forms are ignored.
func Parse(name string, r io.Reader) (*Netlist, error) {
	nl := New(name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := inputRe.FindStringSubmatch(line); m != nil {
			nd := nl.getOrCreate(strings.TrimSpace(m[1]))
			nd.Type = Input
			nl.inputs = append(nl.inputs, nd)
			continue
		}
		if m := outputRe.FindStringSubmatch(line); m != nil {
			nl.outputs = append(nl.outputs, nl.getOrCreate(strings.TrimSpace(m[1])))
			continue
		}
		m := gateRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out := nl.getOrCreate(strings.TrimSpace(m[1]))
		out.Type = ParseGateType(m[2])
		if out.Type == DFF {
			nl.inputs = append(nl.inputs, out)
		}
		nl.gates = append(nl.gates, out)
		for _, seg := range strings.Split(m[3], ",") {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				return nil, fmt.Errorf("%s:%d: empty gate input", name, lineNo)
			}
			in := nl.getOrCreate(seg)
			out.Inputs = append(out.Inputs, in)
			in.Outputs = append(in.Outputs, out)
			if out.Type == DFF && !containsNode(nl.outputs, in) {
				nl.outputs = append(nl.outputs, in)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return nl, nil
}

// ParseFile parses the netlist at path; the netlist is named after the file stem (c2670.bench -> c2670).
func ParseFile(path string) (*Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(CircuitName(path), f)
}

// CircuitName returns the file stem of a benchmark path.
func CircuitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func containsNode(list []*Node, n *Node) bool {
	for _, o := range list {
		if o == n {
			return true
		}
	}
	return false
}
