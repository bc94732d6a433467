package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"go.lsp.dev/protocol"

	"github.com/conduit-lang/eventc/internal/compiler/codegen"
	cerrors "github.com/conduit-lang/eventc/internal/compiler/errors"
	"github.com/conduit-lang/eventc/internal/compiler/platform"
	"github.com/conduit-lang/eventc/internal/compiler/project"
)

// diagnosticSource names the server in editor diagnostics
const diagnosticSource = "eventc"

// Document is an open project file and the result of its last analysis
type Document struct {
	URI     protocol.DocumentURI
	Text    string
	Version int32

	// Project is nil when the text does not decode
	Project     *project.Project
	Diagnostics []protocol.Diagnostic
}

// Analyzer decodes project files and runs code generation on them to
// collect diagnostics. Nothing is written.
type Analyzer struct {
	platform *platform.Platform
	backend  codegen.Backend
}

// NewAnalyzer creates an analyzer generating for backend on p
func NewAnalyzer(p *platform.Platform, backend codegen.Backend) *Analyzer {
	return &Analyzer{platform: p, backend: backend}
}

// Analyze decodes text as the project file uri and reports its
// diagnostics, positioned on the scene and instruction they refer to
func (a *Analyzer) Analyze(ctx context.Context, uri protocol.DocumentURI, text string, version int32) *Document {
	doc := &Document{URI: uri, Text: text, Version: version}

	format, err := project.FormatOf(string(uri))
	if err != nil {
		doc.Diagnostics = []protocol.Diagnostic{newDiagnostic(protocol.Range{}, protocol.DiagnosticSeverityError, "", err.Error())}
		return doc
	}

	proj, err := project.Decode([]byte(text), format)
	if err != nil {
		pos := decodeErrorPosition(text, err)
		doc.Diagnostics = []protocol.Diagnostic{newDiagnostic(protocol.Range{Start: pos, End: pos}, protocol.DiagnosticSeverityError, "", err.Error())}
		return doc
	}
	doc.Project = proj

	diagnostics := proj.Validate()
	generator := codegen.NewProject(a.platform, proj, a.backend)
	if results, err := generator.GenerateProjectCode(ctx); err == nil {
		for _, r := range results {
			diagnostics = append(diagnostics, r.Diagnostics...)
		}
	}
	if results, err := generator.GenerateFunctionsCode(ctx); err == nil {
		for _, r := range results {
			diagnostics = append(diagnostics, r.Diagnostics...)
		}
	}

	doc.Diagnostics = make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, newDiagnostic(
			locate(text, d.Location),
			convertSeverity(d.Severity),
			string(d.Code),
			d.Location.String()+": "+d.Message,
		))
	}
	return doc
}

func newDiagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, code, message string) protocol.Diagnostic {
	d := protocol.Diagnostic{
		Range:    rng,
		Severity: severity,
		Source:   diagnosticSource,
		Message:  message,
	}
	if code != "" {
		d.Code = code
	}
	return d
}

// convertSeverity converts compiler severities to LSP severities
func convertSeverity(severity cerrors.ErrorSeverity) protocol.DiagnosticSeverity {
	switch severity {
	case cerrors.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case cerrors.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// decodeErrorPosition finds where a decoder stopped, the start of the file
// when it does not say
func decodeErrorPosition(text string, err error) protocol.Position {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return positionAt(text, int(syntaxErr.Offset))
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return positionAt(text, int(typeErr.Offset))
	}
	var tomlErr toml.ParseError
	if errors.As(err, &tomlErr) && tomlErr.Position.Line > 0 {
		return protocol.Position{Line: uint32(tomlErr.Position.Line - 1), Character: uint32(max(tomlErr.Position.Col-1, 0))}
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil && line > 0 {
			return protocol.Position{Line: uint32(line - 1)}
		}
	}
	return protocol.Position{}
}

// locate returns the range of the instruction a diagnostic refers to: the
// scene name is searched first, then the instruction type after it.
// Diagnostics without a scene point at the start of the file.
func locate(text string, loc cerrors.Location) protocol.Range {
	if loc.Scene == "" {
		return protocol.Range{}
	}

	sceneName := loc.Scene
	if i := strings.LastIndex(sceneName, "::"); i >= 0 {
		sceneName = sceneName[i+2:]
	}
	start, end, ok := findName(text, sceneName, 0)
	if !ok {
		return protocol.Range{}
	}
	if loc.Instruction != "" {
		if s, e, found := findName(text, loc.Instruction, end); found {
			start, end = s, e
		}
	}
	return protocol.Range{Start: positionAt(text, start), End: positionAt(text, end)}
}

// findName finds name after offset, preferring a quoted occurrence. It
// returns the byte range of the name without quotes.
func findName(text, name string, offset int) (start, end int, ok bool) {
	if name == "" || offset > len(text) {
		return 0, 0, false
	}
	rest := text[offset:]
	for _, quote := range []string{`"`, `'`} {
		if i := strings.Index(rest, quote+name+quote); i >= 0 {
			start = offset + i + 1
			return start, start + len(name), true
		}
	}
	if i := strings.Index(rest, name); i >= 0 {
		start = offset + i
		return start, start + len(name), true
	}
	return 0, 0, false
}

// positionAt converts a byte offset to a line and UTF-16 column
func positionAt(text string, offset int) protocol.Position {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := text[:offset]
	line := strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(utf16Len(prefix[lineStart:])),
	}
}

// offsetAt converts a position back to a byte offset, clamped to the text
func offsetAt(text string, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	units := uint32(0)
	for offset < len(text) && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		units += uint32(utf16.RuneLen(r))
		offset += size
	}
	return offset
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// wordAt returns the identifier under pos and its range. Instruction
// names may contain "::".
func wordAt(text string, pos protocol.Position) (string, protocol.Range, bool) {
	offset := offsetAt(text, pos)
	isWord := func(b byte) bool {
		return b == '_' || b == ':' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
	}

	start := offset
	for start > 0 && isWord(text[start-1]) {
		start--
	}
	end := offset
	for end < len(text) && isWord(text[end]) {
		end++
	}
	word := strings.Trim(text[start:end], ":")
	if word == "" {
		return "", protocol.Range{}, false
	}
	return word, protocol.Range{Start: positionAt(text, start), End: positionAt(text, end)}, true
}
