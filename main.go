// main is the entry point for the coach CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Thiago11gamal/ultra-dashboard2-sub001/cmd"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/contract"
	"github.com/Thiago11gamal/ultra-dashboard2-sub001/internal/datastore"
)

func main() {
	defer contract.SyncLogger()
	defer datastore.CloseStores()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		datastore.CloseStores()
		os.Exit(1)
	}
}
