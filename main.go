package main

import "github.com/Affo25/imsdashboard/cmd"

func main() {
	cmd.Execute()
}
