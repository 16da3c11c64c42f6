package main

import "pdf-translator/cmd"

func main() {
	cmd.Execute()
}
