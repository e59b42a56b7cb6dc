// Command greenscore estimates the energy use and carbon footprint of source code.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/greenscore/cmd"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/internal/iocache"
)

func main() {
	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Cannot stop profiling", perr)
	}
	iocache.CloseStores()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
