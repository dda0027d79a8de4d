package main

import "forzestats-backend/cmd/forze-cli/cmd"

func main() {
	cmd.Execute()
}
