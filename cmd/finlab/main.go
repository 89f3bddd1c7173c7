package main

import "finlab/internal/cli"

func main() {
	cli.Execute()
}
