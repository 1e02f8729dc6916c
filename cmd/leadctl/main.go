// cmd/leadctl/main.go
package main

import "leadcredit/internal/cli"

func main() {
	cli.Execute()
}
