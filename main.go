package main

import "github.com/khanhnv2901/seca-setcookie/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
