package main

import "github.com/liliang-cn/datacron/cmd/datacron"

var version = "dev"

func main() {
	datacron.SetVersion(version)
	datacron.Execute()
}
