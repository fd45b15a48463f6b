// Package main provides the realnvp CLI: build, sample, score and check
// RealNVP flows stored as SafeTensors checkpoints.
package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

const version = "v0.1.0-dev"

func main() {
	defer klog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
