package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	glspserver "github.com/tliron/glsp/server"

	"github.com/CWBudde/go-daedalus-lsp/internal/compiler"
	"github.com/CWBudde/go-daedalus-lsp/internal/lsp"
	"github.com/CWBudde/go-daedalus-lsp/internal/server"
)

const serverName = "daedalus-lsp"

var (
	tcpMode  bool
	tcpPort  int
	logLevel string
	logFile  string
	workers  int
)

func init() {
	// Command-line flags
	flag.BoolVar(&tcpMode, "tcp", false, "Run server in TCP mode (for debugging)")
	flag.IntVar(&tcpPort, "port", 8765, "TCP port to listen on (used with -tcp)")
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.IntVar(&workers, "workers", 0, "Files parsed in parallel while indexing (0: number of CPUs)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "%s version %s\n\n", serverName, lsp.Version)
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", serverName)
	fmt.Fprintf(os.Stderr, "Language Server Protocol implementation for Daedalus scripts\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("%s version %s\n", serverName, lsp.Version)
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "%s version %s starting...\n", serverName, lsp.Version)
	fmt.Fprintf(os.Stderr, "Transport: ")
	if tcpMode {
		fmt.Fprintf(os.Stderr, "TCP (port %d)\n", tcpPort)
	} else {
		fmt.Fprintf(os.Stderr, "STDIO\n")
	}
	fmt.Fprintf(os.Stderr, "Log level: %s\n", logLevel)

	setupLogging()

	srv := server.New(compiler.WithWorkers(workers))
	lsp.SetServer(srv)

	handler := lsp.NewHandler()
	glspServer := glspserver.NewServer(&handler, serverName, logLevel == "debug")

	if tcpMode {
		fmt.Fprintf(os.Stderr, "Starting TCP server on port %d...\n", tcpPort)
		if err := glspServer.RunTCP(fmt.Sprintf("127.0.0.1:%d", tcpPort)); err != nil {
			log.Fatalf("TCP server error: %v", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Starting STDIO server...\n")
		if err := glspServer.RunStdio(); err != nil {
			log.Fatalf("STDIO server error: %v", err)
		}
	}
}

// setupLogging routes both the standard logger and the transport's
// commonlog output according to the command-line flags.
func setupLogging() {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		log.SetOutput(f)
	} else {
		log.SetOutput(os.Stderr)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var path *string
	if logFile != "" {
		path = &logFile
	}
	commonlog.Configure(verbosity(logLevel), path)
}

// verbosity maps a -log-level value to commonlog's verbosity scale.
func verbosity(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return 2
	case "info":
		return 1
	case "warn", "warning":
		return -1
	case "error":
		return -2
	case "none", "off":
		return -4
	}
	return -2
}
