package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"parks/api"
	"parks/app"
	"parks/locator"
	"parks/places"
	"parks/ui"
)

var EnvFlag = flag.String("env", "dev", "Set the environment")
var ServeFlag = flag.Bool("serve", false, "Run the server")
var AddressFlag = flag.String("address", ":8080", "Address for server")

func main() {
	flag.Parse()

	if !*ServeFlag {
		fmt.Fprintln(os.Stderr, "--serve not set")
		os.Exit(2)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// the places client
	client, err := places.NewClient(cfg.APIKey, cfg.Timeout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// the details cache
	cache, err := places.OpenCache(filepath.Join(cfg.DataDir, "places.db"), cfg.CacheTTL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cache.StartPruning(ctx, time.Hour)

	svc := places.WithCache(client, cache)

	lcfg := locator.DefaultConfig()
	lcfg.Country = cfg.Country
	lcfg.Timeout = cfg.Timeout

	// render the api markdown
	md := api.Markdown()
	apiDoc := app.Render([]byte(md))
	apiHTML := app.RenderHTML("API", "API documentation", string(apiDoc))

	page, err := ui.PageHandler(app.Title, app.Subtitle, cfg.BrowserKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mux := http.NewServeMux()

	// the locator page and its renderer
	mux.Handle("/", page)
	mux.Handle("/assets/", ui.AssetHandler())
	mux.HandleFunc("/ws", locator.Handler(lcfg, svc))

	// json api
	mux.HandleFunc("/places/", places.Handler(svc, cfg.Country, cfg.Timeout))
	mux.HandleFunc("/mcp", api.MCPHandler(mux))

	// docs and health
	mux.Handle("/api", app.ServeHTML(apiHTML))
	mux.HandleFunc("/status", app.StatusHandler(
		app.Check{Name: "places cache", Run: cache.Stats},
		app.Check{Name: "open pages", Run: func() (string, error) {
			return strconv.Itoa(locator.Active()), nil
		}},
	))

	app.Log("main", "Starting server on %s", *AddressFlag)

	if err := http.ListenAndServe(*AddressFlag, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if *EnvFlag == "dev" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		mux.ServeHTTP(w, r)
	})); err != nil {
		app.Log("main", "server stopped: %v", err)
		os.Exit(1)
	}
}
