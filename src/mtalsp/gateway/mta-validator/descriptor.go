package mtavalidator

import (
	stderr "errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"gopkg.in/yaml.v3"
)

var _lineMessage = regexp.MustCompile(`^(?:yaml: )?line (\d+): (.*)$`)

// descriptor is a parsed descriptor file with the issues found so far.
type descriptor struct {
	path string
	// root is the top level node of the document, nil when the document is empty or invalid.
	root *yaml.Node
	// doc is the decoded document. It is only meaningful when decoded is set.
	doc     any
	decoded bool
	issues  []entity.Issue
}

// parseDescriptor reports syntax errors, duplicate keys and type errors of a YAML document.
func parseDescriptor(path string, data []byte) *descriptor {
	d := &descriptor{path: path}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		d.issues = append(d.issues, lineIssue(strings.TrimPrefix(err.Error(), "yaml: ")))
		return d
	}

	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		d.root = node.Content[0]
	}
	if d.root == nil {
		d.decoded = true
		return d
	}

	var doc any
	if err := d.root.Decode(&doc); err != nil {
		var typeErr *yaml.TypeError
		if stderr.As(err, &typeErr) {
			for _, msg := range typeErr.Errors {
				d.issues = append(d.issues, lineIssue(msg))
			}
			return d
		}
		d.issues = append(d.issues, lineIssue(err.Error()))
		return d
	}
	d.doc = normalize(doc)
	d.decoded = true
	return d
}

// lineIssue turns a "line N: message" error into an issue on line N. Messages without a line go on line 1.
func lineIssue(msg string) entity.Issue {
	if m := _lineMessage.FindStringSubmatch(msg); m != nil {
		if line, err := strconv.Atoi(m[1]); err == nil {
			return entity.Issue{Severity: _severityError, Message: m[2], Line: line}
		}
	}
	return entity.Issue{Severity: _severityError, Message: msg, Line: 1}
}

// normalize converts a decoded YAML value into a value that encodes as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return strconv.FormatFloat(t, 'g', -1, 64)
		}
		return t
	default:
		return v
	}
}

// mappingValue returns the key and value nodes of key in a mapping node.
func mappingValue(n *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i], n.Content[i+1]
		}
	}
	return nil, nil
}

// nodeLine returns the line of the node at path, or of its deepest existing ancestor.
// Path segments are mapping keys or sequence indexes.
func nodeLine(root *yaml.Node, path []string) int {
	if root == nil {
		return 1
	}

	current := root
	line := root.Line
	for _, segment := range path {
		switch current.Kind {
		case yaml.MappingNode:
			k, v := mappingValue(current, segment)
			if k == nil {
				return line
			}
			line = k.Line
			current = v
		case yaml.SequenceNode:
			i, err := strconv.Atoi(segment)
			if err != nil || i < 0 || i >= len(current.Content) {
				return line
			}
			current = current.Content[i]
			line = current.Line
		case yaml.AliasNode:
			if current.Alias == nil {
				return line
			}
			current = current.Alias
		default:
			return line
		}
	}
	if line < 1 {
		return 1
	}
	return line
}
