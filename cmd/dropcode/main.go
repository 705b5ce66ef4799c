package main

import (
	"log"

	"github.com/lucifer1004/dropcode/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("dropcode failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("dropcode exited with error: %v", err)
	}
}
