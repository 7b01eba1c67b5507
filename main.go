package main

import "github.com/KaramelBytes/samarth/cmd"

func main() {
	cmd.Execute()
}
