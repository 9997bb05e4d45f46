package main

import (
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

type options struct {
	URL string `env:"ARENA_HEALTH_URL" envDefault:"http://127.0.0.1:8080/api/healthz"`
}

func main() {
	var opts options
	if err := env.Parse(&opts); err != nil {
		os.Exit(1)
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(opts.URL)
	if err != nil {
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
	os.Exit(0)
}
