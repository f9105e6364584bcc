package main

import "github.com/camtools/rawdng/rawdng/cmd"

func main() {
	cmd.Execute()
}
