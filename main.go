package main

import "github.com/vibast-solutions/ms-go-glucose/cmd"

func main() {
	cmd.Execute()
}
