package main

import "tailor-preview/cmd"

func main() {
	cmd.Execute()
}
