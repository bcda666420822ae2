package main

import (
	"os"

	"github.com/pynezz/cybermap/internal/util"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		util.PrintErrorf("cybermap: %v", err)
		os.Exit(1)
	}
}
