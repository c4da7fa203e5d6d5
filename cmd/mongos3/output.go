package main

import (
	"errors"
	"io"

	"github.com/fatih/color"
)

// commandError names the operation a failure belongs to.
type commandError struct {
	op  string
	err error
}

func (e *commandError) Error() string {
	return e.err.Error()
}

func (e *commandError) Unwrap() error {
	return e.err
}

func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	return &commandError{op: op, err: err}
}

func printError(w io.Writer, err error) {
	op := "Command"
	var cmdErr *commandError
	if errors.As(err, &cmdErr) {
		op = cmdErr.op
	}
	color.New(color.FgRed).Fprintf(w, "\n❌ %s failed: %s\n", op, err)
}
