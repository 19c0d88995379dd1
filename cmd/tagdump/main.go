package main

import (
	"fmt"
	"os"
	"time"

	"alien_rfid_go/internal/config"
	"alien_rfid_go/sdk"
)

func main() {
	cfg := config.Load()

	ch, err := cfg.OpenChannel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "open channel: %v\n", err)
		os.Exit(1)
	}

	client, err := sdk.NewClient(ch, sdk.Config{
		Timeout:  cfg.Timeout,
		Login:    cfg.Login,
		Password: cfg.Password,
	})
	if err != nil {
		_ = ch.Close()
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", cfg.Target(), err)
		os.Exit(1)
	}
	defer client.Close()

	version, err := client.Version()
	if err == nil {
		fmt.Printf("reader: %s (sw %s)\n", version.ReaderType, version.Software)
	}

	start := time.Now()
	tags, err := client.ReadTags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "read tags: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("read duration: %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("tags: %d\n", len(tags))
	for i, tag := range tags {
		fmt.Printf("%2d) %s ant=%d count=%s disc=%s\n",
			i+1,
			tag.ID,
			tag.Antenna,
			tag.Attrs["count"],
			tag.Attrs["disc"],
		)
	}
}
