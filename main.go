// Command escaperoom starts the Escape Room Game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, the rooms directory and debug logging. Environment
// settings (optionally from .env) control CORS origins and ngrok tunneling.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/escaperoom/api"
	"github.com/wricardo/mcp-training/escaperoom/game/config"
	"github.com/wricardo/mcp-training/escaperoom/game/service"
	"github.com/wricardo/mcp-training/escaperoom/game/session"
	"github.com/wricardo/mcp-training/escaperoom/transport/mcp"
	"github.com/wricardo/mcp-training/escaperoom/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Escape Room Game Server"
)

// serverConfig is the resolved startup configuration
type serverConfig struct {
	Host     string
	Port     int
	RoomsDir string
	Ngrok    bool
	Settings *Settings
}

func (c *serverConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// main loads .env, then runs the root command.
func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("error loading .env file", "error", err)
		}
	} else {
		slog.Info("loaded environment variables from .env file")
	}

	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. Running it without a subcommand starts the HTTP server.
func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "escaperoom",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "rooms-dir",
				Usage:   "Directory with additional room files (.json, .yaml); empty for built-in rooms only",
				Sources: cli.EnvVars("ROOMS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:  "ngrok",
				Usage: "Enable ngrok tunnel (or NGROK_ENABLED)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("debug"))
			return ctx, nil
		},
		Action: runServerAction,
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServerAction,
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := configFromCommand(cmd)
					if err != nil {
						return err
					}
					return runStdioMCP(ctx, cfg)
				},
			},
		},
	}
}

func runServerAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := configFromCommand(cmd)
	if err != nil {
		return err
	}
	return runServer(ctx, cfg)
}

// configFromCommand resolves flags and environment settings
func configFromCommand(cmd *cli.Command) (*serverConfig, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	return &serverConfig{
		Host:     cmd.String("host"),
		Port:     int(cmd.Int("port")),
		RoomsDir: cmd.String("rooms-dir"),
		Ngrok:    cmd.Bool("ngrok") || settings.NgrokEnabled,
		Settings: settings,
	}, nil
}

// setupLogging installs the process-wide slog handler. Logs go to stderr so
// stdout stays free for the MCP stdio transport.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// initializeServices wires the room catalog, session store and game service.
func initializeServices(roomsDir string) (service.GameService, error) {
	configManager, err := config.NewManager(roomsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create room catalog: %w", err)
	}

	for _, room := range configManager.ListRooms() {
		slog.Debug("room loaded", "room", room.ID, "source", room.Source, "puzzles", room.Puzzles)
	}

	return service.NewGameService(session.NewManager(), configManager), nil
}

// newHTTPHandler mounts the API at "/" and the MCP JSON-RPC endpoint at "/mcp".
func newHTTPHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
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

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// runServer starts the HTTP server with the REST API, WebSocket hub, and /mcp
// endpoint, plus an optional ngrok tunnel. It returns after SIGINT/SIGTERM.
func runServer(ctx context.Context, cfg *serverConfig) error {
	gameService, err := initializeServices(cfg.RoomsDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()
	origins := cfg.Settings.AllowedOrigins

	hub := websocket.NewHub(
		websocket.WithLogger(logger),
		websocket.WithCheckOrigin(api.CheckOrigin(origins)),
	)
	go hub.Run(ctx)

	apiServer := api.NewServer(gameService, hub,
		api.WithLogger(logger),
		api.WithAllowedOrigins(origins),
	)

	addr := cfg.addr()
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	handler := newHTTPHandler(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		slog.Info("HTTP server listening",
			"addr", addr,
			"version", Version,
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cfg.Ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cfg.Settings, handler)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case runErr = <-serveErr:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	wg.Wait()
	slog.Info("server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, settings *Settings, handler http.Handler) {
	authToken := settings.ngrokToken()
	if authToken == "" {
		slog.Warn("ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	slog.Info("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if settings.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.NgrokDomain))
		slog.Info("using custom ngrok domain", "domain", settings.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		slog.Error("failed to start ngrok tunnel", "error", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			slog.Warn("failed to close ngrok tunnel", "error", err)
		}
	}()

	ngrokURL := tun.URL()
	slog.Info("ngrok tunnel established",
		"url", ngrokURL,
		"websocket", ngrokURL+"/ws?session=<session_id>",
		"mcp", ngrokURL+"/mcp")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		slog.Error("ngrok server error", "error", err)
	}
	slog.Info("ngrok tunnel closed")
}

// externalAPIAvailable reports whether an API server answers /health at baseURL
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the API on a random loopback port and returns its base URL
func startInternalAPI(ctx context.Context, gameService service.GameService) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(websocket.WithLogger(slog.Default()))
	go hub.Run(ctx)

	httpServer := &http.Server{
		Handler: api.NewServer(gameService, hub),
	}

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("internal HTTP server error", "error", err)
		}
	}()

	return fmt.Sprintf("http://%s", listener.Addr().String()), httpServer, nil
}

// runStdioMCP runs an MCP stdio server. It reuses an API server already
// running at the configured address, or starts an internal one on a random
// loopback port.
func runStdioMCP(ctx context.Context, cfg *serverConfig) error {
	externalURL := fmt.Sprintf("http://%s", cfg.addr())
	slog.Info("checking for external API server", "url", externalURL)

	baseURL := externalURL
	if externalAPIAvailable(ctx, externalURL) {
		slog.Info("external API server found, using it for MCP", "url", externalURL)
	} else {
		gameService, err := initializeServices(cfg.RoomsDir)
		if err != nil {
			return err
		}

		var httpServer *http.Server
		baseURL, httpServer, err = startInternalAPI(ctx, gameService)
		if err != nil {
			return err
		}
		defer httpServer.Close()

		slog.Info("started internal HTTP server for MCP stdio", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	slog.Info("MCP stdio server ready", "api", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
