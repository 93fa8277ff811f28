// Command game2048 starts the 2048 game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// A "layouts" command lists and validates the starting layouts on disk.
//
// Flags control port, layout directory, debug logging and session retention.
// Sending SIGHUP to the server re-reads the layout directory.
// Tunnel and broker settings come from the environment (or a .env file):
// NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN, NATS_URL, NATS_SUBJECT_PREFIX.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/engine"
	"github.com/wricardo/mcp-training/game2048/game/service"
	"github.com/wricardo/mcp-training/game2048/game/session"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
	natspub "github.com/wricardo/mcp-training/game2048/transport/nats"
	"github.com/wricardo/mcp-training/game2048/transport/websocket"
	"github.com/wricardo/mcp-training/game2048/validate"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "2048 Game Server"
)

// settings holds the tunnel and broker configuration read from the environment
type settings struct {
	NgrokEnabled      bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken    string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain       string `env:"NGROK_DOMAIN"`
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"game2048.sessions"`
}

func loadSettings() (settings, error) {
	var s settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// runtime carries the services shared by every mode
type runtime struct {
	gameService service.GameService
	sessions    *session.Manager
	layouts     *config.Manager
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the command tree
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "game2048",
		Usage:   "2048 game server with REST, WebSocket and MCP interfaces",
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "layouts-dir",
				Value:   "configs",
				Usage:   "Directory containing starting layouts",
				Sources: cli.EnvVars("LAYOUTS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.DurationFlag{
				Name:    "session-max-age",
				Value:   24 * time.Hour,
				Usage:   "Remove sessions not accessed for this long",
				Sources: cli.EnvVars("SESSION_MAX_AGE"),
			},
			&cli.IntFlag{
				Name:    "seed",
				Usage:   "Seed for tile spawning (0 picks a random seed)",
				Sources: cli.EnvVars("GAME_SEED"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: runHTTPServer,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Action:  runHTTPServer,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runStdioMCP,
			},
			{
				Name:  "layouts",
				Usage: "Inspect starting layouts",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List valid layouts",
						Action: listLayouts,
					},
					{
						Name:      "validate",
						Usage:     "Validate every layout file",
						ArgsUsage: "[dir]",
						Action:    validateLayouts,
					},
				},
			},
		},
	}
}

// initializeServices wires layout/session managers and the game service.
func initializeServices(layoutsDir string, seed uint64) (*runtime, error) {
	layoutManager, err := config.NewManager(layoutsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create layout manager: %w", err)
	}

	if seed == 0 {
		seed = rand.Uint64()
	}
	// The game service serializes engine access, so one source is shared
	rng := rand.New(rand.NewPCG(seed, seed))
	sessionManager := session.NewManager(engine.WithRandom(rng))

	return &runtime{
		gameService: service.NewGameService(sessionManager, layoutManager),
		sessions:    sessionManager,
		layouts:     layoutManager,
	}, nil
}

func initializeFromCommand(cmd *cli.Command) (*runtime, error) {
	return initializeServices(cmd.String("layouts-dir"), uint64(cmd.Int("seed")))
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s (mode: server)", AppName, Version)

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	rt, err := initializeFromCommand(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sessionCleanupRoutine(ctx, rt.sessions, cmd.Duration("session-max-age"))

	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)
	go layoutReloadRoutine(ctx, reload, rt.layouts)

	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	var notifiers []api.Notifier
	if cfg.NATSURL != "" {
		publisher, err := natspub.Connect(cfg.NATSURL, cfg.NATSSubjectPrefix)
		if err != nil {
			log.Printf("WARNING: NATS disabled: %v", err)
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
			log.Printf("Publishing game events to %s (%s.<session>.state)", cfg.NATSURL, cfg.NATSSubjectPrefix)
		}
	}

	apiServer := api.NewServer(rt.gameService, hub, notifiers...)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, mainRouter)
		}()
	}

	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case err = <-serveErr:
		log.Printf("Shutting down: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

// mcpHandler answers single JSON-RPC MCP messages posted to /mcp
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	}
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, cfg settings, handler http.Handler) {
	if cfg.NgrokAuthToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within maxAge.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, maxAge time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// layoutReloadRoutine drops the layout cache each time reload fires so edited
// files on disk are picked up without a restart.
func layoutReloadRoutine(ctx context.Context, reload <-chan os.Signal, layouts *config.Manager) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-reload:
			layouts.RefreshCache()
			log.Printf("Received %v, reloaded layouts (default: %s)", sig, layouts.GetDefault().Name)
		}
	}
}

// runStdioMCP runs an MCP stdio server.
// It tries to reuse an external API at the configured port; if unavailable, it
// starts an internal HTTP API bound to a random loopback port and targets that.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Starting %s v%s (mode: stdio-mcp)", AppName, Version)

	externalURL := fmt.Sprintf("http://localhost:%d", int(cmd.Int("port")))
	baseURL := externalURL

	log.Printf("Checking for external API server at %s...", externalURL)
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/healthz")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		rt, err := initializeFromCommand(cmd)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()
		defer hub.Stop()

		httpServer := &http.Server{Handler: api.NewServer(rt.gameService, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// listLayouts prints every layout the server would offer
func listLayouts(ctx context.Context, cmd *cli.Command) error {
	layoutManager, err := config.NewManager(cmd.String("layouts-dir"))
	if err != nil {
		return err
	}

	layouts, err := layoutManager.ListLayouts()
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "Available Layouts (%d):\n\n", len(layouts))
	for _, l := range layouts {
		fmt.Fprintf(w, "• %s (id: %s, file: %s)\n  %s\n  Tiles: %d, Max tile: %d\n",
			l.Name, l.LayoutID, l.Filename, l.Description, l.Tiles, l.MaxTile)
	}
	return nil
}

// validateLayouts reports on every layout file and fails if any is invalid
func validateLayouts(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = cmd.String("layouts-dir")
	}

	results, err := validate.Dir(dir)
	if err != nil {
		return err
	}

	if !validate.Report(cmd.Root().Writer, results) {
		return errors.New("some layouts are invalid")
	}
	return nil
}
