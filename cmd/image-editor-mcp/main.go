package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ironsheep/image-editor-mcp/internal/config"
	"github.com/ironsheep/image-editor-mcp/internal/segment"
	"github.com/ironsheep/image-editor-mcp/internal/server"
	"github.com/ironsheep/image-editor-mcp/internal/session"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var configPath string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--version" || arg == "-v" || arg == "version":
			fmt.Printf("image-editor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case arg == "--help" || arg == "-h" || arg == "help":
			printHelp()
			return
		case arg == "--config" || arg == "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			fmt.Fprintf(os.Stderr, "unknown argument: %s\n", arg)
			os.Exit(2)
		}
	}

	cfg, err := config.NewLoader(Version, configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Logging goes to stderr (stdout is for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Debug("image editor MCP server starting",
		"version", Version, "built", BuildTime, "commit", GitCommit)

	if err := run(cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// model is a saliency model that holds native resources.
type model interface {
	segment.Model
	io.Closer
}

var openModel = func(path string) (model, error) {
	m, err := segment.NewONNXModel(path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// run serves MCP requests from in until it is exhausted. The model, if any, is closed
// before run returns.
func run(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	opts := []session.Option{session.WithLogger(logger)}
	if cfg.Segmentation.Model != "" {
		m, err := openModel(cfg.Segmentation.Model)
		if err != nil {
			logger.Warn("background removal disabled", "model", cfg.Segmentation.Model, "error", err)
		} else {
			defer m.Close()
			opts = append(opts, session.WithModel(m))
		}
	}

	editor, err := session.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create editor: %w", err)
	}
	return server.New(editor, logger, Version).Serve(in, out)
}

func printHelp() {
	fmt.Println("image-editor-mcp - MCP server for interactive image editing")
	fmt.Println()
	fmt.Println("Usage: image-editor-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c PATH  Read configuration from PATH")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Configuration is read from the first of:")
	fmt.Println("  --config PATH")
	fmt.Printf("  $%s\n", config.EnvConfigPath)
	fmt.Println("  ./.imageeditorrc (development builds only)")
	fmt.Println("  ~/.config/image-editor-mcp/config.rc")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Set the log level (debug, info, warn, error)\n", config.EnvLogLevel)
	fmt.Printf("  %s=PATH        ONNX saliency model for background removal\n", config.EnvModel)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client.")
}
