package main

import "msgscan/internal/cli"

func main() {
	cli.Execute()
}
