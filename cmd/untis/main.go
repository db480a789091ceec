package main

import (
	"github.com/initializ/untis"
	untiscmd "github.com/initializ/untis/cmd"
)

var (
	version = untis.Version
	commit  = "none"
)

func main() {
	untiscmd.SetVersionInfo(version, commit)
	untiscmd.Execute()
}
