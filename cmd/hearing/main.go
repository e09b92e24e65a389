package main

import "hearing/internal/cli"

func main() {
	cli.Execute()
}
