package errors

import (
	"fmt"
	"io"
)

// WriteError writes err to w, as a JSON ErrorResponse when asJSON is set or
// as a single "error:" line otherwise, and returns the process exit code
// that matches its category.
func WriteError(w io.Writer, err error, asJSON bool) int {
	appErr := AsAppError(err)
	if !asJSON {
		fmt.Fprintf(w, "error: %s\n", appErr.Message)
		return appErr.ExitCode()
	}

	fmt.Fprintf(w, "%s\n", appErr.ToJSON())
	return appErr.ExitCode()
}
