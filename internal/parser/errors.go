package parser

import "fmt"

// CredentialError means the document password was wrong. The caller can fix
// it by retrying with the right password.
type CredentialError struct {
	Msg string
}

func (e *CredentialError) Error() string {
	return e.Msg
}

// StructuralError means the document could not be opened or walked. It wraps
// the underlying cause.
type StructuralError struct {
	Op  string
	Err error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
