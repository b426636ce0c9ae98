// Command larder runs the interactive recipe and restaurant catalog.
package main

import "github.com/mesh-intelligence/larder/internal/cli"

func main() {
	cli.Execute()
}
