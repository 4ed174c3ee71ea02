package main

import "github.com/papapumpkin/beetcut/cmd"

func main() {
	cmd.Execute()
}
