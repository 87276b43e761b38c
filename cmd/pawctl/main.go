// Command pawctl browses and posts to a running PawCircle API from the terminal.
//
//	pawctl list communityposts -pages 2 -filter locationTag=riverside
//	pawctl get rescuengodirectory seed-rescue-01
//	echo '{"postContent":"Found a cat"}' | pawctl post communityposts -token $TOKEN
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
