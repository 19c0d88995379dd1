package main

import (
	"log"

	"alien_rfid_go/internal/config"
	"alien_rfid_go/internal/tui"
	"alien_rfid_go/sdk"
)

func main() {
	cfg := config.Load()

	ch, err := cfg.OpenChannel()
	if err != nil {
		log.Fatal(err)
	}
	client, err := sdk.NewClient(ch, sdk.Config{
		Timeout:  cfg.Timeout,
		Login:    cfg.Login,
		Password: cfg.Password,
	})
	if err != nil {
		_ = ch.Close()
		log.Fatalf("connect %s: %v", cfg.Target(), err)
	}
	defer client.Close()

	if err := tui.Run(client, cfg.Target()); err != nil {
		log.Fatal(err)
	}
}
