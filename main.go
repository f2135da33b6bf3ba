package main

import "github.com/webamon/webamon-cli/cmd"

func main() {
	cmd.Execute()
}
