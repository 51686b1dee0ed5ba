package main

import "github.com/josephlewis42/dosh/cmd"

func main() {
	cmd.Execute()
}
