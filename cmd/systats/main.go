package main

import (
	"log"

	"github.com/teslafields/sysinfo-reader/internal/boot"
)

func main() {
	if err := boot.Run(); err != nil {
		log.Fatalf("[FATAL] %s", err)
	}
}
