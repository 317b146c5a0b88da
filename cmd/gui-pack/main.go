// Command gui-pack assembles the gzip-compressed web GUI bundle and publishes
// it to the firmware data directory.
package main

import "github.com/oshokin/gui-pack/cmd/gui-pack/cmd"

func main() {
	cmd.Execute()
}
