package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ironsheep/pixelart-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pixelart-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "render":
			if err := runRender(os.Args[2:], os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "render: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("PIXELART_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Pixel Art MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.NewWithConfig(server.Config{
		RenderTimeout: renderTimeout(os.Getenv("PIXELART_MCP_TIMEOUT")),
		Debug:         debug,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// renderTimeout parses a Go duration, falling back to the server default when
// the value is empty or unusable.
func renderTimeout(v string) time.Duration {
	if v == "" {
		return server.DefaultRenderTimeout
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Ignoring PIXELART_MCP_TIMEOUT=%q, using %v", v, server.DefaultRenderTimeout)
		return server.DefaultRenderTimeout
	}
	return d
}

func printHelp() {
	fmt.Println("pixelart-mcp - MCP server for pixel art stylization")
	fmt.Println()
	fmt.Println("Usage: pixelart-mcp [options]")
	fmt.Println("       pixelart-mcp render -in <file> -out <file> [render flags]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  render           Convert one image and exit (see 'pixelart-mcp render -h')")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PIXELART_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  PIXELART_MCP_TIMEOUT=60s        Per-render timeout")
	fmt.Println()
	fmt.Println("Without a command the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
