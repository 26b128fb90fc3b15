// Command kiconv converts LTspice and gschem schematics to KiCad and checks
// KiCad board files.
package main

import "github.com/OpenTraceLab/kiconv/cmd/kiconv/cmd"

func main() {
	cmd.Execute()
}
