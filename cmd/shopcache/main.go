// Package main is the entrypoint for the shopcache CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/shopcache/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
