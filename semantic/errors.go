// Package semantic indexes the capturing groups of a built pattern and
// checks the references and flags that the grammar alone cannot
// validate.
//
// The analysis performs:
//   - Group indexing: numbering capturing groups in pre-order and
//     mapping names to groups
//   - Reference checking: backreferences and conditionals must name a
//     group that exists and, for backreferences, is already closed
//   - Lookbehind checking: lookbehind bodies must have a fixed width
//   - Flag checking: redundant or incompatible inline flags, reported
//     as warnings
package semantic

import (
	"fmt"
	"strings"

	"github.com/kolkov/reggie/token"
)

// Error represents a semantic error with source location.
type Error struct {
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Warning represents a semantic warning (non-fatal issue).
type Warning struct {
	Pos     token.Position
	Message string
}

// String returns the warning as a formatted string.
func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList is a collection of semantic errors.
type ErrorList []*Error

// Add appends an error to the list.
func (el *ErrorList) Add(pos token.Position, format string, args ...any) {
	*el = append(*el, errorf(pos, format, args...))
}

// Err returns an error if the list is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Error implements the error interface for ErrorList.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		var sb strings.Builder
		sb.WriteString(el[0].Error())
		for _, e := range el[1:] {
			sb.WriteByte('\n')
			sb.WriteString(e.Error())
		}
		return sb.String()
	}
}

// WarningList is a collection of semantic warnings.
type WarningList []*Warning

// Add appends a warning to the list.
func (wl *WarningList) Add(pos token.Position, format string, args ...any) {
	*wl = append(*wl, &Warning{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// errorf creates a new semantic error.
func errorf(pos token.Position, format string, args ...any) *Error {
	return &Error{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common error messages as constants for consistency.
const (
	errDuplicateName    = "redefinition of group name %q as group %d; was group %d"
	errUnknownName      = "unknown group name %q"
	errInvalidReference = "invalid group reference %d"
	errOpenGroup        = "cannot refer to an open group"
	errBadGroupNumber   = "bad group number"
	errLookbehindWidth  = "look-behind requires fixed-width pattern"
	warnRedundantFlags  = "inline flags %q do not change the flags in effect"
	warnASCIIUnicode    = "ASCII and UNICODE flags are incompatible"
	warnLocaleStr       = "LOCALE flag has no effect on a str pattern"
)
