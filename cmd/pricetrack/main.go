package main

import "pricetrack/internal/cli"

func main() {
	cli.Execute()
}
