package main

import "github.com/solidDoWant/quick-timer/cmd"

func main() {
	cmd.Execute()
}
