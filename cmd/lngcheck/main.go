package main

import "lngcheck/internal/cli"

func main() {
	cli.Execute()
}
