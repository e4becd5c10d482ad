package main

import (
	"argus/internal/app"

	"github.com/charmbracelet/log"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatal("argus terminated", "error", err)
	}
}
