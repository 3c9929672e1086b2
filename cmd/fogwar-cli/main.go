package main

import "github.com/nfrund/fogwar/cmd/fogwar-cli/cmd"

func main() {
	cmd.Execute()
}
