// Package main provides the waypoint CLI.
package main

import "github.com/mesh-intelligence/waypoint/internal/cli"

func main() {
	cli.Execute()
}
