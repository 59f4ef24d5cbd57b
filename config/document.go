package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
)

// Sentinel errors returned by the document reader.
var (
	ErrReadInput  = errors.New("read input")
	ErrInvalidDoc = errors.New("invalid document")
)

// Format identifies the serialization of a document.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the format for a file path by extension: ".json"
// is JSON, ".yaml" and ".yml" are YAML. Unknown extensions try JSON
// first and fall back to YAML.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}

	if json.Valid(data) {
		return FormatJSON
	}

	return FormatYAML
}

// ParseError reports a syntactically malformed document.
type ParseError struct {
	Cause  error
	File   string
	Line   int
	Column int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, e.Cause)
	}

	return fmt.Sprintf("%s: %v", e.File, e.Cause)
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error { return e.Cause }

// Document is one loaded configuration file.
type Document struct {
	Path   string
	Format Format
	Data   []byte
	// Tree is the generic document value with ordered mappings
	// ([yaml.MapSlice]).
	Tree any

	parseOnce sync.Once
	file      *ast.File
}

// ReadFile loads and parses the document at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return Parse(path, data)
}

// Parse parses document bytes. The path is used for format detection
// and error messages only.
func Parse(path string, data []byte) (*Document, error) {
	format := DetectFormat(path, data)

	if format == FormatJSON {
		// Surface JSON syntax errors with their own position info
		// before the YAML-superset decode.
		var probe any

		err := json.Unmarshal(data, &probe)
		if err != nil {
			return nil, jsonParseError(path, data, err)
		}
	}

	var tree any

	err := yaml.UnmarshalWithOptions(data, &tree, yaml.UseOrderedMap())
	if err != nil {
		return nil, &ParseError{
			File:  path,
			Cause: errors.New(yaml.FormatError(err, false, false)),
		}
	}

	return &Document{
		Path:   path,
		Format: format,
		Data:   data,
		Tree:   tree,
	}, nil
}

// jsonParseError converts a stdlib JSON error, deriving line and
// column from the byte offset when one is available.
func jsonParseError(path string, data []byte, err error) *ParseError {
	perr := &ParseError{File: path, Cause: err}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		perr.Line, perr.Column = offsetPosition(data, syntaxErr.Offset)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		perr.Line, perr.Column = offsetPosition(data, typeErr.Offset)
	}

	return perr
}

func offsetPosition(data []byte, offset int64) (line, column int) {
	if offset < 1 || offset > int64(len(data)) {
		return 0, 0
	}

	line, column = 1, 1

	for _, b := range data[:offset-1] {
		if b == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}

	return line, column
}

// Locate resolves a JSON-pointer path (e.g. "/flags/0/name") to a
// line and column in the document source. It reports ok=false when
// the path cannot be resolved.
func (d *Document) Locate(pointer string) (line, column int, ok bool) {
	d.parseOnce.Do(func() {
		file, err := parser.ParseBytes(d.Data, 0)
		if err == nil {
			d.file = file
		}
	})

	if d.file == nil {
		return 0, 0, false
	}

	pathExpr, err := yaml.PathString(pointerToPath(pointer))
	if err != nil {
		return 0, 0, false
	}

	node, err := pathExpr.FilterFile(d.file)
	if err != nil || node == nil {
		return 0, 0, false
	}

	tok := node.GetToken()
	if tok == nil || tok.Position == nil {
		return 0, 0, false
	}

	return tok.Position.Line, tok.Position.Column, true
}

// pointerToPath converts a JSON pointer to goccy's path syntax:
// "/flags/0/name" -> "$.flags[0].name".
func pointerToPath(pointer string) string {
	var sb strings.Builder

	sb.WriteByte('$')

	for seg := range strings.SplitSeq(strings.TrimPrefix(pointer, "/"), "/") {
		if seg == "" {
			continue
		}

		seg = strings.ReplaceAll(seg, "~1", "/")
		seg = strings.ReplaceAll(seg, "~0", "~")

		if isAllDigits(seg) {
			sb.WriteByte('[')
			sb.WriteString(seg)
			sb.WriteByte(']')

			continue
		}

		sb.WriteByte('.')
		sb.WriteString(seg)
	}

	return sb.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// JSONTree converts the ordered tree into plain JSON-compatible
// values (map[string]any, []any, json.Number, string, bool, nil) for
// consumption by schema validators.
func JSONTree(v any) any {
	switch node := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(node))

		for _, item := range node {
			out[fmt.Sprint(item.Key)] = JSONTree(item.Value)
		}

		return out

	case map[string]any:
		out := make(map[string]any, len(node))

		for k, val := range node {
			out[k] = JSONTree(val)
		}

		return out

	case []any:
		out := make([]any, 0, len(node))

		for _, item := range node {
			out = append(out, JSONTree(item))
		}

		return out

	case int:
		return json.Number(fmt.Sprint(node))
	case int64:
		return json.Number(fmt.Sprint(node))
	case uint64:
		return json.Number(fmt.Sprint(node))
	}

	return v
}
