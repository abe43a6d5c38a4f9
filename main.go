package main

import "git-publish/internal/cli"

func main() {
	cli.Execute()
}
