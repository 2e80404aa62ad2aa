package syntax

import "strconv"

// ErrorCode describes why a pattern failed to parse.
// Codes are comparable with errors.Is through *Error.
type ErrorCode string

const (
	ErrMissingParen          ErrorCode = "missing closing )"
	ErrUnexpectedParen       ErrorCode = "unexpected )"
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	ErrInvalidRepeatOp       ErrorCode = "invalid nested repetition operator"
	ErrInvalidBackref        ErrorCode = "invalid backreference"
	ErrMissingBracket        ErrorCode = "missing closing ]"
	ErrInvalidCharRange      ErrorCode = "invalid character class range"
	ErrTrailingBackslash     ErrorCode = "trailing backslash at end of expression"
	ErrTooManyGroups         ErrorCode = "too many capture groups"
	ErrInvalidGroup          ErrorCode = "invalid or unsupported group syntax"
	ErrNestingDepth          ErrorCode = "expression nests too deeply"
)

func (e ErrorCode) String() string {
	return string(e)
}

// Error implements the error interface so a code can be used as an
// errors.Is target.
func (e ErrorCode) Error() string {
	return string(e)
}

// Error reports a malformed pattern.
type Error struct {
	Code ErrorCode
	Pos  int    // byte offset in the pattern where the problem was detected
	Expr string // offending fragment
}

func (e *Error) Error() string {
	return "error parsing pattern at offset " + strconv.Itoa(e.Pos) + ": " + e.Code.String() + ": `" + e.Expr + "`"
}

// Unwrap returns the error code.
func (e *Error) Unwrap() error {
	return e.Code
}
