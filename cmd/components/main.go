package main

import "github.com/thand-io/components/cmd/cli"

func main() {
	cli.Execute()
}
