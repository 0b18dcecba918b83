package main

import "github.com/ytget/yt-grabber/cmd"

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	cmd.Execute(version)
}
