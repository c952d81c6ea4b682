package main

import "github.com/quillgraph/quill/cmd"

func main() {
	cmd.Execute()
}
