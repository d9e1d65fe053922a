// Command sequence-server starts the Sequence board-card game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, the
//     WebSocket endpoint, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP
//     API if none is available
//
// Flags control host/port, the preset and games directories, debug logging,
// version output, and optional ngrok tunneling for easy external access
// during development. Every flag default can also be supplied through the
// environment (or a .env file): PORT, HOST, CONFIG_DIR, GAMES_DIR, BASE_URL,
// NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/seqboard/sequence-server/api"
	"github.com/seqboard/sequence-server/game/config"
	"github.com/seqboard/sequence-server/game/service"
	"github.com/seqboard/sequence-server/game/session"
	"github.com/seqboard/sequence-server/transport/mcp"
	"github.com/seqboard/sequence-server/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Sequence Game Server"
)

// envDefaults carries the environment-supplied defaults for the flags below.
// Values come from the process environment, optionally seeded from a .env
// file, and every field has a built-in fallback so decoding never fails on a
// bare environment.
type envDefaults struct {
	Port         int    `env:"PORT,default=8080"`
	Host         string `env:"HOST,default=localhost"`
	ConfigDir    string `env:"CONFIG_DIR,default=configs"`
	GamesDir     string `env:"GAMES_DIR,default=data/games"`
	BaseURL      string `env:"BASE_URL"`
	NgrokEnabled bool   `env:"NGROK_ENABLED,default=false"`
	NgrokAuth    string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain  string `env:"NGROK_DOMAIN"`
}

// env carries the environment defaults. It is loaded before the flags below
// so every flag default can come from the environment or a .env file.
var env = loadEnvDefaults()

// Configuration flags control how the server starts and which services are
// enabled.
var (
	port         = flag.Int("port", env.Port, "HTTP server port")
	host         = flag.String("host", env.Host, "HTTP server host")
	configDir    = flag.String("config-dir", env.ConfigDir, "Directory containing rule presets")
	gamesDir     = flag.String("games-dir", env.GamesDir, "Directory for persisted game files")
	baseURL      = flag.String("base-url", env.BaseURL, "Base URL used in shareable game links (defaults to http://host:port)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", env.NgrokEnabled, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", env.NgrokAuth, "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", env.NgrokDomain, "Custom ngrok domain (optional)")
)

// loadEnvDefaults reads the .env file (when present) and decodes the
// environment into an envDefaults. All fields have built-in fallbacks, so a
// bare environment decodes cleanly.
func loadEnvDefaults() envDefaults {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	var e envDefaults
	if err := envdecode.Decode(&e); err != nil {
		log.Printf("Warning: Failed to decode environment: %v", err)
	}
	return e
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	if *baseURL == "" {
		*baseURL = fmt.Sprintf("http://%s:%d", *host, *port)
	}

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	gameService, presets, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(gameService, presets)

	case "server", "http":
		runHTTPServer(gameService, presets)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// initializeServices wires the registry, persistence, preset manager, and the
// game service. It also starts the background routine that keeps the
// in-memory registry in sync with the games directory.
func initializeServices() (service.GameService, service.PresetManager, error) {
	presets, err := config.NewManager(*configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create preset manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(*gamesDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create game persistence: %w", err)
	}

	manager := session.NewManagerWithPersistence(persistence)

	loaded, err := manager.LoadPersistedGames()
	if err != nil {
		log.Printf("Warning: Failed to load persisted games: %v", err)
	} else if loaded > 0 {
		log.Printf("Loaded %d persisted games from %s", loaded, *gamesDir)
	}

	gameService := service.NewGameService(manager, presets, *baseURL)

	go filesystemSyncRoutine(manager)

	return gameService, presets, nil
}

// filesystemSyncRoutine periodically prunes registry entries whose backing
// files were deleted out of band, so removing a game file on disk removes
// the game from the running server.
func filesystemSyncRoutine(manager *session.Manager) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		pruned := manager.PruneDeleted()
		for _, id := range pruned {
			log.Printf("Pruned game %s from memory (file deleted)", id)
		}
	}
}

// newWebSocketStack builds the dispatcher/hub pair and starts the hub loop.
func newWebSocketStack(gameService service.GameService) *websocket.Hub {
	dispatcher := websocket.NewDispatcher(gameService)
	hub := websocket.NewHub(dispatcher)
	dispatcher.SetHub(hub)
	go hub.Run()
	return hub
}

// runHTTPServer starts the HTTP server with the REST API, WebSocket hub, and
// an /mcp proxy endpoint. If ngrok is enabled (via flag or environment), it
// also provisions a public tunnel.
func runHTTPServer(gameService service.GameService, presets service.PresetManager) {
	hub := newWebSocketStack(gameService)
	apiServer := api.NewServer(gameService, presets, hub)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	// Browser clients connect from the lobby pages, so the API allows
	// cross-origin requests and logs every request in Apache combined format.
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	rootHandler := handlers.CombinedLoggingHandler(os.Stdout, cors(mainRouter))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?game_id=<game_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if *ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, rootHandler)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runNgrokTunnel provisions a public ngrok endpoint and serves the given
// handler through it until the context is cancelled.
func runNgrokTunnel(ctx context.Context, handler http.Handler) {
	if *ngrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if *ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(*ngrokDomain))
		log.Printf("Using custom ngrok domain: %s", *ngrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(*ngrokAuth),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?game_id=<game_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at the configured address; if
// unavailable, it starts a minimal internal HTTP API bound to a random
// loopback port and targets that.
func runStdioMCPWithInternalServer(gameService service.GameService, presets service.PresetManager) {
	var httpServer *http.Server
	var listener net.Listener

	externalURL := fmt.Sprintf("http://%s:%d", *host, *port)
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")

	var targetURL string
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		targetURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}

		internalAddr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := newWebSocketStack(gameService)
		httpServer = &http.Server{
			Handler: api.NewServer(gameService, presets, hub),
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Give the listener a moment before the first tool call hits it.
		time.Sleep(100 * time.Millisecond)

		targetURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(targetURL)

	log.Println("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
