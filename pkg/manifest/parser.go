package manifest

import (
	"bytes"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// Frontmatter keys interpreted by the parser. Everything else is preserved
// in Manifest.Extra for forward compatibility.
var knownKeys = map[string]bool{
	"name":           true,
	"description":    true,
	"allowed-tools":  true,
	"status":         true,
	"project_types":  true,
	"implementation": true,
	"options":        true,
}

// Parse parses a skill manifest document. It is a pure function over the
// input text: no filesystem or environment access.
func Parse(content []byte) (*Manifest, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, &ParseError{Reason: MissingFrontmatter, Err: errors.Wrap(err, "failed to parse markdown")}
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, &ParseError{Reason: MissingFrontmatter}
	}

	m := &Manifest{
		Body:  extractBody(string(content)),
		Extra: map[string]any{},
	}

	name, _ := metaData["name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, &ParseError{Reason: MissingRequiredField, Field: "name"}
	}
	m.Name = name

	description, _ := metaData["description"].(string)
	if strings.TrimSpace(description) == "" {
		return nil, &ParseError{Reason: MissingRequiredField, Field: "description"}
	}
	m.Description = description

	if raw, exists := metaData["allowed-tools"]; exists {
		tools, err := stringList(raw)
		if err != nil {
			return nil, &ParseError{Reason: InvalidField, Field: "allowed-tools", Err: err}
		}
		for _, tool := range tools {
			if _, err := glob.Compile(tool); err != nil {
				return nil, &ParseError{Reason: InvalidField, Field: "allowed-tools", Err: errors.Wrapf(err, "bad pattern %q", tool)}
			}
		}
		m.AllowedTools = tools
	}

	if raw, exists := metaData["status"]; exists {
		status, ok := raw.(string)
		if !ok {
			return nil, &ParseError{Reason: InvalidField, Field: "status"}
		}
		m.Status = status
	}

	if raw, exists := metaData["project_types"]; exists {
		types, err := stringList(raw)
		if err != nil {
			return nil, &ParseError{Reason: InvalidField, Field: "project_types", Err: err}
		}
		m.ProjectTypes = types
	}

	if raw, exists := metaData["implementation"]; exists {
		impl, ok := raw.(string)
		if !ok {
			return nil, &ParseError{Reason: InvalidField, Field: "implementation"}
		}
		m.Implementation = impl
	}

	if raw, exists := metaData["options"]; exists {
		options, err := decodeOptions(raw)
		if err != nil {
			return nil, &ParseError{Reason: InvalidField, Field: "options", Err: err}
		}
		m.Options = options
	}

	for key, value := range metaData {
		if !knownKeys[key] {
			m.Extra[key] = normalize(value)
		}
	}

	return m, nil
}

// decodeOptions decodes the declared option schema out of the raw
// frontmatter value.
func decodeOptions(raw any) (map[string]Option, error) {
	if raw == nil {
		return nil, nil
	}

	var options map[string]Option
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &options,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create options decoder")
	}
	if err := decoder.Decode(normalize(raw)); err != nil {
		return nil, errors.Wrap(err, "failed to decode options")
	}

	for key, opt := range options {
		if opt.Type == "" {
			return nil, errors.Errorf("option %q is missing a type", key)
		}
		if !validOptionType(opt.Type) {
			return nil, errors.Errorf("option %q has unsupported type %q", key, opt.Type)
		}
		if opt.Type == TypeEnum && len(opt.Enum) == 0 {
			return nil, errors.Errorf("enum option %q declares no values", key)
		}
	}
	return options, nil
}

// normalize converts the YAML v2 shapes produced by goldmark-meta
// (map[interface{}]interface{} nesting) into string-keyed maps.
func normalize(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			out[keyStr] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalize(val)
		}
		return out
	default:
		return value
	}
}

// stringList coerces a frontmatter value into a list of strings. A bare
// key with no value is the empty list.
func stringList(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.Errorf("expected a list, got %T", raw)
	}

	list := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, errors.Errorf("expected a string entry, got %T", item)
		}
		list = append(list, s)
	}
	return list, nil
}

// extractBody strips the YAML frontmatter block and returns the body.
func extractBody(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
