package main

import "task-vault.com/task-vault/cmd"

func main() {
	cmd.Execute()
}
