package main

import "github.com/brogergvhs/mangaseek/cmd"

func main() {
	cmd.Execute()
}
