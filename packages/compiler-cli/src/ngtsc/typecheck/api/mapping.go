package api

import (
	"ngtcb-go/packages/compiler-cli/src/ngtsc/reflection"
	"ngtcb-go/packages/compiler/src/util"
)

// TemplateSourceMappingType tags the variants of TemplateSourceMapping.
type TemplateSourceMappingType string

const (
	TemplateSourceMappingDirect   TemplateSourceMappingType = "direct"
	TemplateSourceMappingIndirect TemplateSourceMappingType = "indirect"
	TemplateSourceMappingExternal TemplateSourceMappingType = "external"
)

// TemplateSourceMapping describes where the text of a template physically lives, and how offsets
// within that text are turned into positions reported to the user.
//
// The set of variants is closed: *DirectTemplateSourceMapping, *IndirectTemplateSourceMapping and
// *ExternalTemplateSourceMapping.
type TemplateSourceMapping interface {
	MappingType() TemplateSourceMappingType
	// HostNode returns the host expression the mapping refers to.
	HostNode() *reflection.Expression
	// TemplateText returns the text of the template.
	TemplateText() string

	isTemplateSourceMapping()
}

// PreciseSourceMapping is implemented by the mappings which can locate a sub-range of the
// template text. The indirect mapping deliberately does not implement it.
type PreciseSourceMapping interface {
	TemplateSourceMapping
	// SpanOf returns the span of the template text between the offsets start and end.
	SpanOf(start, end int) *util.ParseSourceSpan
}

// DirectTemplateSourceMapping is a template declared inline as a string literal. Positions in the
// template text are offsets into the literal, so the host file positions are exact.
type DirectTemplateSourceMapping struct {
	Node *reflection.Expression
}

// IndirectTemplateSourceMapping is a template declared inline through an expression that does not
// map onto its value character by character (e.g. concatenation). Only the expression as a whole
// can be reported.
type IndirectTemplateSourceMapping struct {
	ComponentClass *reflection.ClassDeclaration
	Node           *reflection.Expression
	Template       string
}

// ExternalTemplateSourceMapping is a template loaded from a separate file. Node is the expression
// naming that file; positions inside the template are reported against the template file.
type ExternalTemplateSourceMapping struct {
	ComponentClass *reflection.ClassDeclaration
	Node           *reflection.Expression
	Template       string
	TemplateURL    string
}

var (
	_ PreciseSourceMapping  = (*DirectTemplateSourceMapping)(nil)
	_ TemplateSourceMapping = (*IndirectTemplateSourceMapping)(nil)
	_ PreciseSourceMapping  = (*ExternalTemplateSourceMapping)(nil)
)

func (m *DirectTemplateSourceMapping) isTemplateSourceMapping()   {}
func (m *IndirectTemplateSourceMapping) isTemplateSourceMapping() {}
func (m *ExternalTemplateSourceMapping) isTemplateSourceMapping() {}

func (m *DirectTemplateSourceMapping) MappingType() TemplateSourceMappingType {
	return TemplateSourceMappingDirect
}

func (m *DirectTemplateSourceMapping) HostNode() *reflection.Expression { return m.Node }

// TemplateText returns the contents of the literal, without its quotes.
func (m *DirectTemplateSourceMapping) TemplateText() string {
	text := m.Node.Text()
	if len(text) < 2 {
		return ""
	}
	return text[1 : len(text)-1]
}

// SpanOf maps the template offsets onto the host file, right after the opening quote.
func (m *DirectTemplateSourceMapping) SpanOf(start, end int) *util.ParseSourceSpan {
	size := len(m.TemplateText())
	base := m.Node.Start + 1
	return m.Node.File.Span(base+clamp(start, size), base+clamp(end, size))
}

func (m *IndirectTemplateSourceMapping) MappingType() TemplateSourceMappingType {
	return TemplateSourceMappingIndirect
}

func (m *IndirectTemplateSourceMapping) HostNode() *reflection.Expression { return m.Node }
func (m *IndirectTemplateSourceMapping) TemplateText() string             { return m.Template }

// NodeSpan returns the span of the whole template expression, the only position that can be
// reported for the template.
func (m *IndirectTemplateSourceMapping) NodeSpan() *util.ParseSourceSpan {
	return m.Node.Span()
}

func (m *ExternalTemplateSourceMapping) MappingType() TemplateSourceMappingType {
	return TemplateSourceMappingExternal
}

func (m *ExternalTemplateSourceMapping) HostNode() *reflection.Expression { return m.Node }
func (m *ExternalTemplateSourceMapping) TemplateText() string             { return m.Template }

// TemplateFile returns the template file, in which binding positions are reported.
func (m *ExternalTemplateSourceMapping) TemplateFile() *util.ParseSourceFile {
	return util.NewParseSourceFile(m.Template, m.TemplateURL)
}

// ReferenceSpan returns the span of the expression naming the template file, in the host file.
func (m *ExternalTemplateSourceMapping) ReferenceSpan() *util.ParseSourceSpan {
	return m.Node.Span()
}

// SpanOf returns the span between start and end in the template file.
func (m *ExternalTemplateSourceMapping) SpanOf(start, end int) *util.ParseSourceSpan {
	return m.TemplateFile().Span(start, end)
}

// ToDiagnosticSpan returns the span reported for a diagnostic produced between the template
// offsets start and end. Indirect templates always report the whole template expression.
func ToDiagnosticSpan(mapping TemplateSourceMapping, start, end int) *util.ParseSourceSpan {
	switch m := mapping.(type) {
	case *DirectTemplateSourceMapping:
		return m.SpanOf(start, end)
	case *IndirectTemplateSourceMapping:
		return m.NodeSpan()
	case *ExternalTemplateSourceMapping:
		return m.SpanOf(start, end)
	default:
		return nil
	}
}

func clamp(offset, size int) int {
	if offset < 0 {
		return 0
	}
	if offset > size {
		return size
	}
	return offset
}
