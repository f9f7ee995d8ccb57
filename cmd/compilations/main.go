// Command compilations manages named collections of links, images, and text
// notes stored in a shared data directory.
package main

import "github.com/mesh-intelligence/compilations/internal/cli"

func main() {
	cli.Execute()
}
