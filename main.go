package main

import "github.com/tetralog/tetralog/internal/cmd"

func main() {
	cmd.Execute()
}
