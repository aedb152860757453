// Package main provides the entry point for the fshash forensic hashing CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/engine"
)

// Exit codes. Per-file failures alone do not fail the run; they are
// reported in the output and the process still exits 0.
const (
	exitOK        = 0
	exitError     = 1
	exitAllFailed = 2
	exitCancelled = 130
)

func main() {
	err := Execute()
	if err == nil {
		os.Exit(exitOK)
	}

	switch {
	case errors.Is(err, engine.ErrCancelled):
		fmt.Fprintln(os.Stderr, engine.UserMessage(err))
		os.Exit(exitCancelled)
	case errors.Is(err, engine.ErrAllFailed):
		fmt.Fprintln(os.Stderr, "Error: "+engine.UserMessage(err))
		os.Exit(exitAllFailed)
	default:
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(exitError)
	}
}
