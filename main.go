package main

import "tracerag/cmd"

func main() {
	cmd.Execute()
}
