package main

import "github.com/harlequix/hamrelay/cmd"

func main() {
	cmd.Execute()
}
