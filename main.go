package main

import "github.com/KaramelBytes/hivetox-cli/cmd"

func main() {
	cmd.Execute()
}
