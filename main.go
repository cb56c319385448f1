package main

import "github.com/maastricht-university/stt-benchmark/cmd"

func main() {
	cmd.Execute()
}
