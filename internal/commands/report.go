package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"taskdemo/internal/exitcode"
	"taskdemo/internal/service"
)

// reportError prints err for the user and returns its exit code.
// Rejections of the request itself (4xx) are user errors, rejected credentials are
// auth errors, everything else is a backend error.
func reportError(errOut io.Writer, err error) int {
	msg := service.DisplayMessage(err, err.Error())

	if service.IsAuth(err) {
		fmt.Fprintf(errOut, "error: auth error: %s\n", msg)
		return exitcode.AuthError
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	}
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		fmt.Fprintf(errOut, "error: %s\n", msg)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", msg)
	return exitcode.BackendError
}

func userError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}
