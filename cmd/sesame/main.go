package main

import (
	"github.com/Royalwole/sesame-sub004/internal/cli"
)

func main() {
	cli.Execute()
}
