package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, ee.msg)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitRunnerFailure)
	}
}
