package main

import "github.com/datacanary/datacanary/cmd"

func main() {
	cmd.Execute()
}
