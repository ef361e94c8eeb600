package main

import "github.com/KaramelBytes/staffscope-cli/cmd"

func main() {
	cmd.Execute()
}
