package main

import (
	"fmt"
	"os"

	"github.com/kylodelgado/nychapp/pkg/logger"
)

func main() {
	defer func() {
		_ = logger.Sync()
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
