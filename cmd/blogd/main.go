package main

import "github.com/blogsolution/blog-service/cmd/blogd/commands"

func main() {
	commands.Execute()
}
