package main

import "github.com/stocksensei/stocksensei/internal/cli"

func main() {
	cli.Execute()
}
