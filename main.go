package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"kinoseat-cli/service"
	"kinoseat-cli/store"
	"kinoseat-cli/tui"
)

const appName = "kinoseat-cli"

var (
	version = "dev"
	commit  = "none"
)

func printUsage(out *os.File) {
	fmt.Fprintf(out, "Usage: %s [--version]\n", appName)
	fmt.Fprintln(out, "Environment:")
	fmt.Fprintln(out, "  KINOSEAT_API_URL  backend base URL (default http://localhost:8080)")
	fmt.Fprintln(out, "  KINOSEAT_DEBUG    write request logs to the cache directory when truthy")
}

func printVersion() {
	fmt.Printf("%s %s", appName, version)
	if commit != "none" && commit != "" {
		fmt.Printf(" (%s)", commit)
	}
	fmt.Println()
}

func handleArgs(args []string) bool {
	if len(args) == 0 {
		return true
	}

	for _, arg := range args {
		switch arg {
		case "-h", "--help", "help":
			printUsage(os.Stdout)
			return false
		case "-v", "--version", "version":
			printVersion()
			return false
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n", arg)
			printUsage(os.Stderr)
			os.Exit(2)
		}
	}

	return false
}

// debugLogger writes to a file in the cache dir. Logging to the terminal
// would fight the TUI for the screen.
func debugLogger() zerolog.Logger {
	dir, err := os.UserCacheDir()
	if err != nil {
		return zerolog.Nop()
	}
	path := filepath.Join(dir, appName, "debug.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop()
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop()
	}
	return zerolog.New(file).With().Timestamp().Logger()
}

func main() {
	if !handleArgs(os.Args[1:]) {
		return
	}

	_ = godotenv.Load()

	log := zerolog.Nop()
	if debug, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("KINOSEAT_DEBUG"))); debug {
		log = debugLogger()
	}

	client := service.NewClient(os.Getenv("KINOSEAT_API_URL"), nil)
	client.SetLogger(log)
	if token, err := store.LoadToken(); err == nil && token != "" {
		client.SetToken(token)
	}

	if _, err := tea.NewProgram(tui.New(client, log), tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
