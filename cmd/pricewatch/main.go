package main

import (
	"os"

	"pricewatch/cmd/pricewatch/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
