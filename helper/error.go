package helper

import "fmt"

// NewError wraps err with the operation it occurred in.
// The wrapped error stays matchable with errors.Is/errors.As.
func NewError(operation string, err error) error {
	return fmt.Errorf("error in %s: %w", operation, err)
}
