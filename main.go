package main

import "github.com/goldbar123467/arb-bot/cmd"

func main() {
	cmd.Execute()
}
