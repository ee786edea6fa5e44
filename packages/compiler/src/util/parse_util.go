package util

import (
	"fmt"
	"strings"
)

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// ParseSourceFile represents a source file
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

// LocationAt returns the location of the given byte offset. Offsets outside
// of the content are clamped to its bounds. Lines and columns are zero based.
func (f *ParseSourceFile) LocationAt(offset int) *ParseLocation {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	prefix := f.Content[:offset]
	line := strings.Count(prefix, "\n")
	col := offset
	if nl := strings.LastIndexByte(prefix, '\n'); nl >= 0 {
		col = offset - nl - 1
	}
	return NewParseLocation(f, offset, line, col)
}

// Span returns the span covering [start, end) of the file.
func (f *ParseSourceFile) Span(start, end int) *ParseSourceSpan {
	if end < start {
		end = start
	}
	return NewParseSourceSpan(f.LocationAt(start), f.LocationAt(end), nil, nil)
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start     *ParseLocation
	End       *ParseLocation
	FullStart *ParseLocation
	Details   *string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation, fullStart *ParseLocation, details *string) *ParseSourceSpan {
	if fullStart == nil {
		fullStart = start
	}
	return &ParseSourceSpan{
		Start:     start,
		End:       end,
		FullStart: fullStart,
		Details:   details,
	}
}

// String returns the source code in this span
func (p *ParseSourceSpan) String() string {
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

// ParseErrorLevel represents the level of a parse error
type ParseErrorLevel int

const (
	ParseErrorLevelWarning ParseErrorLevel = iota
	ParseErrorLevelError
)

// ParseError represents an error attached to a source span
type ParseError struct {
	Span  *ParseSourceSpan
	Msg   string
	Level ParseErrorLevel
}

// NewParseError creates a new ParseError
func NewParseError(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelError,
	}
}

// Error implements the error interface
func (p *ParseError) Error() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	return fmt.Sprintf("%s: %s", p.Msg, p.Span.Start)
}
