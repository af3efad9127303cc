package catalog

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/uzbridge/hemis-mcp/pkg/hemis"
)

// Location says where a parameter lands on the upstream request.
type Location string

const (
	InQuery Location = "query"
	InPath  Location = "path"
	InBody  Location = "body"
)

// Envelope names the payload shape an endpoint answers with. Object
// payloads are unwrapped to the bare object, lists to the bare array;
// paginated payloads keep their {items, attributes} wrapper intact.
type Envelope string

const (
	EnvelopeObject    Envelope = "object"
	EnvelopeList      Envelope = "list"
	EnvelopePaginated Envelope = "paginated"
)

// Parameter declares one named argument of a tool.
type Parameter struct {
	Name     string
	Wire     string // upstream parameter name; defaults to Name
	Required bool
	Location Location
	Default  string // applied when an optional argument is absent
}

func (p Parameter) wire() string {
	if p.Wire != "" {
		return p.Wire
	}
	return p.Name
}

// EndpointSpec maps one tool onto one upstream endpoint. Entries are
// purely declarative; adding a tool means adding one entry to the table
// and an input shape to the protocol layer.
type EndpointSpec struct {
	Tool        string
	Description string
	Method      string
	Path        string // relative to the API base, may contain {name} segments
	Auth        bool   // false for public endpoints, no token attached
	Mutating    bool   // upstream side effects; never retried by any layer
	Envelope    Envelope
	Parameters  []Parameter
}

var index = make(map[string]EndpointSpec, len(specs))

func init() {
	for _, e := range specs {
		index[e.Tool] = e
	}
}

// Lookup returns the catalogue entry for a tool name.
func Lookup(tool string) (EndpointSpec, bool) {
	e, ok := index[tool]
	return e, ok
}

// All returns every catalogue entry in declaration order.
func All() []EndpointSpec {
	out := make([]EndpointSpec, len(specs))
	copy(out, specs)
	return out
}

// BuildRequest serializes arguments onto the wire exactly as the entry
// declares: path segments substituted, query parameters set, body fields
// collected. language overrides the declared default for the language
// parameter when the caller did not pass one explicitly.
func (e EndpointSpec) BuildRequest(args map[string]any, language string) (hemis.Request, error) {
	declared := make(map[string]Parameter, len(e.Parameters))
	for _, p := range e.Parameters {
		declared[p.Name] = p
	}
	for name := range args {
		if _, ok := declared[name]; !ok {
			return hemis.Request{}, invalidArgs(e.Tool, fmt.Sprintf("unknown parameter %q", name))
		}
	}

	path := e.Path
	query := url.Values{}
	var body map[string]any

	for _, p := range e.Parameters {
		raw, present := args[p.Name]

		var value string
		if present {
			s, ok := stringify(raw)
			if !ok {
				return hemis.Request{}, invalidArgs(e.Tool, fmt.Sprintf("parameter %q must be a scalar value", p.Name))
			}
			value = strings.TrimSpace(s)
			present = value != ""
		}
		if !present {
			if p.Required {
				return hemis.Request{}, invalidArgs(e.Tool, fmt.Sprintf("missing required parameter %q", p.Name))
			}
			if p.Name == "language" && language != "" {
				value = language
			} else {
				value = p.Default
			}
			if value == "" {
				continue
			}
		}

		switch p.Location {
		case InPath:
			path = strings.ReplaceAll(path, "{"+p.wire()+"}", url.PathEscape(value))
		case InQuery:
			query.Set(p.wire(), value)
		case InBody:
			if body == nil {
				body = make(map[string]any)
			}
			body[p.wire()] = value
		}
	}

	var reqBody any
	if body != nil {
		reqBody = body
	}
	return hemis.Request{
		Op:     e.Tool,
		Method: e.Method,
		Path:   path,
		Query:  query,
		Body:   reqBody,
	}, nil
}

func invalidArgs(tool, msg string) error {
	return &hemis.Error{Sentinel: hemis.ErrInvalidArguments, Operation: tool, Message: msg}
}

// stringify flattens a JSON-decoded scalar into its wire form. Whole
// floats lose their fraction so a numeric semester arrives as "14",
// never "14.0".
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// Validate checks the whole table once at startup: names unique, methods
// known, every path placeholder backed by a declared path parameter and
// every path parameter present in the template.
func Validate() error {
	return validateSpecs(specs)
}

func validateSpecs(table []EndpointSpec) error {
	seen := make(map[string]bool, len(table))
	for _, e := range table {
		if e.Tool == "" {
			return fmt.Errorf("catalogue entry with empty tool name (path %q)", e.Path)
		}
		if seen[e.Tool] {
			return fmt.Errorf("duplicate catalogue entry for tool %q", e.Tool)
		}
		seen[e.Tool] = true

		if e.Method != "GET" && e.Method != "POST" {
			return fmt.Errorf("tool %q: unsupported method %q", e.Tool, e.Method)
		}
		if e.Path == "" || strings.HasPrefix(e.Path, "/") {
			return fmt.Errorf("tool %q: path must be non-empty and relative, got %q", e.Tool, e.Path)
		}
		switch e.Envelope {
		case EnvelopeObject, EnvelopeList, EnvelopePaginated:
		default:
			return fmt.Errorf("tool %q: unknown envelope %q", e.Tool, e.Envelope)
		}

		params := make(map[string]bool, len(e.Parameters))
		pathParams := make(map[string]bool)
		for _, p := range e.Parameters {
			if p.Name == "" {
				return fmt.Errorf("tool %q: parameter with empty name", e.Tool)
			}
			if params[p.Name] {
				return fmt.Errorf("tool %q: duplicate parameter %q", e.Tool, p.Name)
			}
			params[p.Name] = true
			switch p.Location {
			case InQuery, InPath, InBody:
			default:
				return fmt.Errorf("tool %q: parameter %q has unknown location %q", e.Tool, p.Name, p.Location)
			}
			if p.Required && p.Default != "" {
				return fmt.Errorf("tool %q: required parameter %q cannot carry a default", e.Tool, p.Name)
			}
			if p.Location == InPath {
				pathParams[p.wire()] = true
			}
		}

		placeholders := make(map[string]bool)
		for _, m := range placeholderRe.FindAllStringSubmatch(e.Path, -1) {
			placeholders[m[1]] = true
		}
		for name := range placeholders {
			if !pathParams[name] {
				return fmt.Errorf("tool %q: path placeholder {%s} has no declared path parameter", e.Tool, name)
			}
		}
		for name := range pathParams {
			if !placeholders[name] {
				return fmt.Errorf("tool %q: path parameter %q does not appear in path %q", e.Tool, name, e.Path)
			}
		}
	}
	return nil
}
