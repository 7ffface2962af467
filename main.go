package main

import "github.com/Alturino/lairai/cmd"

func main() {
	cmd.Start()
}
