package main

import "ldifcompare/cmd"

func main() {
	cmd.Execute()
}
