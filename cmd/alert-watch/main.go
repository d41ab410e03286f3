package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/neervazh/ward-monitor/internal/config"
	"github.com/neervazh/ward-monitor/internal/logging"
)

// alert-watch follows the server's alert event stream and prints each
// event, one line per SSE frame.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	url := fmt.Sprintf("http://%s:%d/api/alerts/stream", cfg.Server.Host, cfg.Server.Port)
	slog.Info("following alert stream", "url", url)

	resp, err := http.Get(url)
	if err != nil {
		logging.Fatalf("Failed to connect to alert stream: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Fatalf("Unexpected status from alert stream: %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			fmt.Println(line)
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Fatalf("Alert stream closed with error: %v", err)
	}
}
