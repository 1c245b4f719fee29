package main

import (
	"log"
	"os"

	"SignalSentinel/cmd/sentinel/cmd"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := cmd.Execute(); err != nil {
		log.Printf("[FATAL] %v", err)
		os.Exit(1)
	}
}
