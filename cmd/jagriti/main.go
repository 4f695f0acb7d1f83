package main

import "github.com/JustJay7/consumer-case-tracker/cmd/jagriti/cmd"

func main() {
	cmd.Execute()
}
