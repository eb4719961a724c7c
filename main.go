package main

import (
	"github.com/sidkik/build-ferry/cmd"
	"github.com/sidkik/build-ferry/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
