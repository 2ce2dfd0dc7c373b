package main

import "github.com/uml-digitalinitiatives/glip/cmd/glip/cmd"

func main() {
	cmd.Execute()
}
