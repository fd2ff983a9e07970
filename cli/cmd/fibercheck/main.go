// Command fibercheck assesses daily fiber intake from the command line,
// either locally or against a running fibermonitor server.
package main

import (
	"os"
)

var version = "dev"

func main() {
	u := &ui{}
	if err := newRootCmd(u).Execute(); err != nil {
		u.printError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
