package main

import "github.com/mkobayashi-dev/github-wrapped/cmd"

func main() {
	cmd.Execute()
}
