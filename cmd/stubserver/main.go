package main

import (
	"log"
	"net/http"

	"pepesbook/internal/config"
	"pepesbook/internal/stub"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	server := stub.New()

	log.Printf("Stub Pepesbook API listening on :%s", cfg.StubPort)
	if err := http.ListenAndServe(":"+cfg.StubPort, server.Router()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
