package main

import "tcg-pipeline/cmd/analyze/cmd"

func main() {
	cmd.Execute()
}
