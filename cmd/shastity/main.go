package main

import (
	"github.com/scode/shastity/cmd/shastity/cmd"
)

func main() {
	cmd.Execute()
}
