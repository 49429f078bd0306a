package main

import (
	"os"

	"github.com/fuellabs-lite/swayc/cmd/swayc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
