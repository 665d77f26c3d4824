package main

import "github.com/iksnae/video-chat/cmd"

func main() {
	cmd.Execute()
}
