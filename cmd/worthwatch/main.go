package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var version = "0.1.0-dev"

// Exit codes: 0 success, 1 run failure, 2 usage or configuration error.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "-version" || args[0] == "--version") {
		fmt.Println("worthwatch", version)
		return
	}
	cmd := "update"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd = args[0]
		args = args[1:]
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var code int
	switch cmd {
	case "update":
		code = runUpdate(args)
	case "check":
		code = runCheck(args)
	case "repair":
		code = runRepair(args)
	case "export":
		code = runExport(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q; commands: update, check, repair, export\n", cmd)
		code = 2
	}
	os.Exit(code)
}
