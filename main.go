// main is the entry point for the debtsession CLI.
package main

import (
	"github.com/huangsam/debtsession/cmd"
	"github.com/huangsam/debtsession/internal/contract"
)

func main() {
	defer cmd.CloseStore()
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
