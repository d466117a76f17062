package main

import "github.com/nextlevelbuilder/discordrpc/cmd"

func main() {
	cmd.Execute()
}
