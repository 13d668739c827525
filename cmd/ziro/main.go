package main

import (
	"os"

	"github.com/ziro-dev/ziro-dist/internal/launcher"
)

func main() {
	launcher.Main(os.Args[1:])
}
