package main

import (
	"fmt"
	"os"

	api "Warbler/api"
)

func main() {
	if err := api.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
