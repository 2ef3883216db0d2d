// The main package for the ojacrawler executable.
package main

import (
	"github.com/JakeFAU/oja-awards-crawler/cmd"
)

func main() {
	cmd.Execute()
}
