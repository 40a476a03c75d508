package main

import "github.com/izzatfaris/permohonan-intake/cmd"

func main() {
	cmd.Execute()
}
