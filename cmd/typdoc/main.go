package main

import "github.com/mickleon/typdoc/internal/cli"

func main() {
	cli.Execute()
}
