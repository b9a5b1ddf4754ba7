// Package main is the hwmoni entrypoint.
package main

import "github.com/Dicklesworthstone/hwmoni/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
