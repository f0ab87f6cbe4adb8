// Package main is the entry point for the perpetual calendar command line.
package main

import "github.com/zapponejosh/perpetual-calendar/internal/cli"

func main() {
	cli.Main()
}
