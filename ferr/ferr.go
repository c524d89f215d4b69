// Package ferr defines the five error kinds the core is allowed to raise.
// Every error the writer or reader returns wraps one of these sentinels,
// so callers can classify failures with errors.Is rather than string
// matching.
package ferr

import "golang.org/x/xerrors"

// Kind is a sealed enumeration of the core's error conditions. Nothing
// outside this package may introduce a new Kind.
type Kind uint8

const (
	// Truncated: a computed offset or length would read past the buffer.
	// The reader never recovers from this — the partially populated
	// destination is discarded.
	Truncated Kind = iota
	// BadFileIdentifier: the root envelope's identifier does not match the
	// expected root type.
	BadFileIdentifier
	// BadUnionTag: a union tag value exceeds the declared alternative
	// count + 1.
	BadUnionTag
	// DuplicateTraits: a Go type was registered against more than one
	// encoding class. Raised at build time (first registration use), never
	// on the read path.
	DuplicateTraits
	// InternalLayout: pass 2's byte count disagreed with pass 1's. This is
	// defensive — it indicates a bug in the writer, not bad input.
	InternalLayout
)

func (k Kind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case BadFileIdentifier:
		return "bad file identifier"
	case BadUnionTag:
		return "bad union tag"
	case DuplicateTraits:
		return "duplicate traits"
	case InternalLayout:
		return "internal layout"
	default:
		return "unknown"
	}
}

// Error is the concrete error type every core-raised error unwraps to. It
// carries the offending Kind plus a human-readable message built at the call
// site (offsets, type names, field counts — whatever is useful for that
// failure).
type Error struct {
	Kind Kind
	msg  string
	wrap error
}

func (e *Error) Error() string {
	if e.wrap != nil {
		return e.Kind.String() + ": " + e.msg + ": " + e.wrap.Error()
	}
	return e.Kind.String() + ": " + e.msg
}

func (e *Error) Unwrap() error { return e.wrap }

// Is reports whether target is the sentinel for e's Kind, so callers can
// write errors.Is(err, ferr.Truncated) directly against the Kind value.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Error lets a bare Kind value itself satisfy the error interface,
// so ferr.Truncated can be compared with errors.Is without constructing an
// *Error first.
func (k Kind) Error() string { return k.String() }

// New builds an *Error of the given kind with a formatted message, in the
// style of xerrors.Errorf — %w wraps an inner error for Unwrap.
func New(k Kind, format string, args ...interface{}) *Error {
	formatted := xerrors.Errorf(format, args...)
	return &Error{Kind: k, msg: formatted.Error(), wrap: unwrapIfWrapped(formatted)}
}

func unwrapIfWrapped(err error) error {
	type wrapper interface{ Unwrap() error }
	if w, ok := err.(wrapper); ok {
		return w.Unwrap()
	}
	return nil
}

// Is reports whether err's chain contains an *Error of kind k. It is the
// intended way to classify a failure returned by writer.Save or reader.Load:
//
//	if ferr.Is(err, ferr.Truncated) { ... }
func Is(err error, k Kind) bool {
	return xerrors.Is(err, k)
}
