package main

import "github.com/cognora/checkin-pipeline/cmd"

func main() {
	cmd.Execute()
}
