// Command planner runs the projection engine over a YAML household snapshot.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
