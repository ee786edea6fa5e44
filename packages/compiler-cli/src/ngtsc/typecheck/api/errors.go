package api

import (
	"errors"
	"fmt"

	"ngtcb-go/packages/compiler/src/util"
)

var (
	// ErrReservedFlag is returned when a reserved configuration flag is enabled.
	ErrReservedFlag = errors.New("reserved type-checking flag")

	// ErrUnresolvedDirective is returned when a directive used by a template has no type-check
	// metadata. Type checking of the template is aborted rather than treating its bindings as
	// unchecked.
	ErrUnresolvedDirective = errors.New("directive has no type-check metadata")

	// ErrTemplateLoad is returned when the file of an external template cannot be loaded.
	ErrTemplateLoad = errors.New("could not load template file")

	// ErrUnknownTemplate is returned when a TemplateId was never allocated.
	ErrUnknownTemplate = errors.New("unknown template id")
)

// TemplateLoadError reports an external template whose file could not be loaded. Span locates the
// expression naming the file, in the host file.
type TemplateLoadError struct {
	TemplateURL string
	Span        *util.ParseSourceSpan
	Err         error
}

func (e *TemplateLoadError) Error() string {
	msg := e.Diagnostic().Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Diagnostic reports the failure against the expression naming the file.
func (e *TemplateLoadError) Diagnostic() *util.ParseError {
	return util.NewParseError(e.Span, fmt.Sprintf("could not find template file '%s'", e.TemplateURL))
}

// Unwrap exposes both ErrTemplateLoad and the underlying cause.
func (e *TemplateLoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTemplateLoad}
	}
	return []error{ErrTemplateLoad, e.Err}
}
