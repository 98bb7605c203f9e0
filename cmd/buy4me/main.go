package main

import "github.com/seanhuang1228/buy4me/cmd/buy4me/cmd"

func main() {
	cmd.Execute()
}
