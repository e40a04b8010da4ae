package main

import "friendsearch/internal/cli"

func main() {
	cli.Execute()
}
