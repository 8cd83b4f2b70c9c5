package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess          = 0 // Every evaluation produced scores
	ExitEvaluationFailed = 1 // A run ended in error or below --min-score
	ExitError            = 2 // Configuration or usage error
)

// EvaluationFailedError indicates that the command ran to completion, but at
// least one evaluation failed or scored below the requested minimum.
type EvaluationFailedError struct {
	Message string
}

func (e *EvaluationFailedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var evalErr *EvaluationFailedError
	if errors.As(err, &evalErr) {
		return ExitEvaluationFailed
	}
	return ExitError
}
