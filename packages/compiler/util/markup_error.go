package util

import "fmt"

// ErrorKind classifies a markup compilation error
type ErrorKind int

const (
	// ErrorKindUnresolvedSymbol indicates a markup name, member, enum value
	// or attached-property accessor that the type oracle cannot resolve.
	ErrorKindUnresolvedSymbol ErrorKind = iota
	// ErrorKindMissingKey indicates a dictionary entry without a
	// determinable key.
	ErrorKindMissingKey
	// ErrorKindTooManyChildren indicates a template-content member with more
	// than one child element.
	ErrorKindTooManyChildren
	// ErrorKindMalformedMarkupConstruct indicates structural misuse of an
	// otherwise valid element.
	ErrorKindMalformedMarkupConstruct
	// ErrorKindInternalGeneratorFault wraps an unexpected failure during a
	// single node's handling.
	ErrorKindInternalGeneratorFault
)

// String returns the name of the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindUnresolvedSymbol:
		return "UnresolvedSymbol"
	case ErrorKindMissingKey:
		return "MissingKey"
	case ErrorKindTooManyChildren:
		return "TooManyChildren"
	case ErrorKindMalformedMarkupConstruct:
		return "MalformedMarkupConstruct"
	case ErrorKindInternalGeneratorFault:
		return "InternalGeneratorFault"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// MarkupError is the single error type surfaced by the compiler. A failure
// terminates the current document's compilation; any partial output must be
// discarded by the caller.
type MarkupError struct {
	Kind         ErrorKind
	Span         *ParseSourceSpan
	Msg          string
	RelatedError error
}

// NewMarkupError creates a new MarkupError
func NewMarkupError(kind ErrorKind, span *ParseSourceSpan, msg string) *MarkupError {
	return &MarkupError{
		Kind: kind,
		Span: span,
		Msg:  msg,
	}
}

// WrapInternal wraps an unexpected failure with position context. A
// MarkupError passes through unchanged so the domain taxonomy survives the
// generator's per-node boundary.
func WrapInternal(err error, span *ParseSourceSpan) *MarkupError {
	if err == nil {
		return nil
	}
	if me, ok := err.(*MarkupError); ok {
		return me
	}
	return &MarkupError{
		Kind:         ErrorKindInternalGeneratorFault,
		Span:         span,
		Msg:          err.Error(),
		RelatedError: err,
	}
}

// Error implements the error interface
func (m *MarkupError) Error() string {
	return m.String()
}

// Unwrap returns the wrapped error, if any
func (m *MarkupError) Unwrap() error {
	return m.RelatedError
}

// ContextualMessage returns the error message with surrounding source
func (m *MarkupError) ContextualMessage() string {
	if m.Span == nil || m.Span.Start == nil {
		return m.Msg
	}
	ctx := m.Span.Start.GetContext(100, 3)
	if ctx != nil {
		return fmt.Sprintf(`%s ("%s[%s ->]%s")`, m.Msg, ctx.Before, m.Kind, ctx.After)
	}
	return m.Msg
}

// String returns a string representation of the error
func (m *MarkupError) String() string {
	if m.Span == nil {
		return m.Msg
	}
	details := ""
	if m.Span.Details != nil {
		details = fmt.Sprintf(", %s", *m.Span.Details)
	}
	if m.Span.Start == nil {
		return fmt.Sprintf("%s%s", m.ContextualMessage(), details)
	}
	return fmt.Sprintf("%s: %s%s", m.ContextualMessage(), m.Span.Start, details)
}
