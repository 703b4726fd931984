// Package launcher picks a server runtime, starts it with inherited stdio, and
// forwards termination signals until it exits.
package launcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Runtime names a server implementation the launcher can start.
type Runtime string

const (
	// RuntimeAuto prefers native, then node, then python.
	RuntimeAuto Runtime = "auto"
	// RuntimeNative runs the contextd binary.
	RuntimeNative Runtime = "native"
	// RuntimeNode runs mcp-server.js with node.
	RuntimeNode Runtime = "node"
	// RuntimePython runs main.py with python3 or python.
	RuntimePython Runtime = "python"
)

// ErrNoRuntime is returned when no requested runtime is available.
var ErrNoRuntime = errors.New("no suitable runtime found or specified runtime not available")

const (
	nativeBinary = "contextd"
	nodeScript   = "mcp-server.js"
	pythonScript = "main.py"
)

// Availability records which runtimes answered a version probe.
type Availability struct {
	// NativePath is the contextd binary that answered, empty if none.
	NativePath string
	Node       bool
	// PythonCommand is "python3" or "python", empty if neither answered.
	PythonCommand string
}

// Names lists available runtimes in preference order.
func (a Availability) Names() []string {
	var names []string
	if a.NativePath != "" {
		names = append(names, string(RuntimeNative))
	}
	if a.Node {
		names = append(names, string(RuntimeNode))
	}
	if a.PythonCommand != "" {
		names = append(names, string(RuntimePython))
	}
	return names
}

// Candidate is a resolved command line for one runtime.
type Candidate struct {
	Runtime Runtime
	Command string
	Args    []string
	Label   string
}

// Select resolves the preferred runtime against what is available. serverDir
// is where the node and python server scripts live.
func Select(preferred Runtime, avail Availability, serverDir string) (Candidate, error) {
	native := func() Candidate {
		return Candidate{Runtime: RuntimeNative, Command: avail.NativePath, Label: "Go"}
	}
	node := func() Candidate {
		return Candidate{Runtime: RuntimeNode, Command: "node", Args: []string{filepath.Join(serverDir, nodeScript)}, Label: "Node.js"}
	}
	python := func() Candidate {
		return Candidate{Runtime: RuntimePython, Command: avail.PythonCommand, Args: []string{filepath.Join(serverDir, pythonScript)}, Label: "Python"}
	}

	switch preferred {
	case RuntimeNative:
		if avail.NativePath != "" {
			return native(), nil
		}
	case RuntimeNode:
		if avail.Node {
			return node(), nil
		}
	case RuntimePython:
		if avail.PythonCommand != "" {
			return python(), nil
		}
	case RuntimeAuto, "":
		switch {
		case avail.NativePath != "":
			return native(), nil
		case avail.Node:
			return node(), nil
		case avail.PythonCommand != "":
			return python(), nil
		}
	default:
		return Candidate{}, fmt.Errorf("unknown runtime %q: must be one of auto, native, node, python", preferred)
	}
	return Candidate{}, noRuntimeError(avail)
}

func noRuntimeError(avail Availability) error {
	names := avail.Names()
	if len(names) == 0 {
		return fmt.Errorf("%w (available: none)", ErrNoRuntime)
	}
	hints := make([]string, 0, len(names))
	for _, name := range names {
		hints = append(hints, "MCP_RUNTIME="+name)
	}
	return fmt.Errorf("%w (set one of: %s)", ErrNoRuntime, strings.Join(hints, ", "))
}
