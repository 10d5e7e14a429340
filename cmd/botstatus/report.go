// cmd/botstatus/report.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/apex/log"

	"github.com/tamzrod/bot-status/internal/bot"
	"github.com/tamzrod/bot-status/internal/cache"
	"github.com/tamzrod/bot-status/internal/config"
	"github.com/tamzrod/bot-status/internal/store"
)

// openOffline opens the store read-only. It fails while the daemon holds the file.
func openOffline(cfg *config.Config) *bot.Bot {
	st, err := store.Open(cfg.Storage.Path, store.Options{ReadOnly: true})
	if err != nil {
		log.Fatalf("store open failed (is the daemon running?): %v", err)
	}

	b, err := bot.New(cfg.Bot.ID, cache.New(), st)
	if err != nil {
		log.Fatalf("bot init failed: %v", err)
	}
	return b
}

// runReport prints the last known status from storage. No device IO.
func runReport(cfg *config.Config) {
	b := openOffline(cfg)
	defer b.Store().Close()

	if _, err := b.Restore(); err != nil {
		log.Fatalf("restore failed: %v", err)
	}

	snap, err := b.Report()
	if err != nil {
		log.Fatalf("report failed: %v", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Fatalf("format json: %v", err)
	}
	fmt.Println(string(data))
}

func runHistory(cfg *config.Config) {
	b := openOffline(cfg)
	defer b.Store().Close()

	cmds, err := b.Commands().Recent(0)
	if err != nil {
		log.Fatalf("history failed: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "AT\tCOMMAND")
	for _, c := range cmds {
		fmt.Fprintf(w, "%s\t%s\n", c.At.Format(time.RFC3339), c.Name)
	}
	_ = w.Flush()
}
