// Package loader reads stakeholder nodes from the JSON input file.
//
// The input is a single JSON array:
//
//	[
//	  {"id": "Junta vecinal", "group": "Colonias", "interest": "Alto",
//	   "influence": "Bajo", "rol": "Beneficiario", "estrategia": "Informar"}
//	]
//
// Records with a bad id or level are skipped with a warning; a non-string
// group, rol or estrategia is dropped with a warning and the record kept.
// Only an unreadable file or a document that is not an array is an error.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/stakemap/pkg/debug"
	"github.com/vanderheijden86/stakemap/pkg/metrics"
	"github.com/vanderheijden86/stakemap/pkg/model"
)

// StdinPath makes LoadNodes read from standard input.
const StdinPath = "-"

// ErrNoData is returned when the input file does not exist.
var ErrNoData = errors.New("no stakeholder data found")

// ParseOptions configures the behavior of ParseNodes.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., a skipped record).
	// If nil, warnings are printed to os.Stderr.
	WarningHandler func(string)

	// NodeFilter optionally filters parsed nodes. Return true to include.
	// When nil, all valid nodes are included.
	NodeFilter func(*model.Node) bool
}

// record mirrors one element of the input array before normalization.
// Optional fields stay raw so a non-string value degrades to empty instead
// of rejecting the whole record.
type record struct {
	ID         string          `json:"id"`
	Group      json.RawMessage `json:"group"`
	Interest   string          `json:"interest"`
	Influence  string          `json:"influence"`
	Rol        json.RawMessage `json:"rol"`
	Estrategia json.RawMessage `json:"estrategia"`
}

// LoadNodes reads nodes from path. A path of "-" reads standard input.
func LoadNodes(path string) ([]model.Node, error) {
	return LoadNodesWithOptions(path, ParseOptions{})
}

// LoadNodesWithOptions reads nodes from path with custom options.
func LoadNodesWithOptions(path string, opts ParseOptions) ([]model.Node, error) {
	defer metrics.Timer(metrics.InputLoad)()
	start := time.Now()

	if path == StdinPath {
		return ParseNodesWithOptions(os.Stdin, opts)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNoData, path)
		}
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	nodes, err := ParseNodesWithOptions(file, opts)
	debug.LogTiming("load "+path, time.Since(start))
	return nodes, err
}

// ParseNodes parses a JSON array of node records.
func ParseNodes(r io.Reader) ([]model.Node, error) {
	return ParseNodesWithOptions(r, ParseOptions{})
}

// ParseNodesWithOptions parses a JSON array of node records with custom
// options. Records are normalized (trimmed, levels canonicalized) and
// validated; invalid records and duplicate ids are skipped with a warning.
func ParseNodesWithOptions(r io.Reader, opts ParseOptions) ([]model.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	data = bytes.TrimSpace(stripBOM(data))
	if len(data) == 0 {
		return nil, nil
	}

	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("input must be a JSON array of nodes: %w", err)
	}

	nodes := make([]model.Node, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, msg := range raw {
		var rec record
		if err := json.Unmarshal(msg, &rec); err != nil {
			warn(fmt.Sprintf("skipping malformed record %d: %v", i, err))
			continue
		}

		var ignored []string
		n, err := normalize(rec, func(field string) { ignored = append(ignored, field) })
		if err != nil {
			warn(fmt.Sprintf("skipping invalid record %d: %v", i, err))
			continue
		}

		if first, dup := seen[n.ID]; dup {
			warn(fmt.Sprintf("skipping record %d: duplicate id %q (first seen at record %d)", i, n.ID, first))
			continue
		}

		if opts.NodeFilter != nil && !opts.NodeFilter(&n) {
			continue
		}

		for _, field := range ignored {
			warn(fmt.Sprintf("record %d (%q): ignoring non-string %s", i, n.ID, field))
		}
		seen[n.ID] = i
		nodes = append(nodes, n)
	}

	debug.Log("parsed %d of %d records", len(nodes), len(raw))
	return nodes, nil
}

func normalize(rec record, badField func(string)) (model.Node, error) {
	n := model.Node{
		ID:       strings.TrimSpace(rec.ID),
		Group:    optionalString(rec.Group, "group", badField),
		Role:     optionalString(rec.Rol, "rol", badField),
		Strategy: optionalString(rec.Estrategia, "estrategia", badField),
	}
	if n.ID == "" {
		return n, fmt.Errorf("missing id")
	}

	interest, err := model.ParseLevel(rec.Interest)
	if err != nil {
		return n, fmt.Errorf("node %q interest: %w", n.ID, err)
	}
	influence, err := model.ParseLevel(rec.Influence)
	if err != nil {
		return n, fmt.Errorf("node %q influence: %w", n.ID, err)
	}
	n.Interest = interest
	n.Influence = influence

	return n, n.Validate()
}

// optionalString decodes a string field, reporting anything else other than
// null or absence through badField and returning "".
func optionalString(raw json.RawMessage, field string, badField func(string)) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		badField(field)
		return ""
	}
	return strings.TrimSpace(s)
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
