package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fahad9993/expense-tracker-gsheet/internal/client"
)

var (
	serverURL string
	verbose   bool

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "journal",
	})
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "journal-cli",
	Short: "Command-line client for the journal server",
	Long: `journal-cli talks to a running journal server: log in once, then
append, fetch and filter ledger entries from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		if serverURL == "" {
			serverURL = os.Getenv("JOURNAL_SERVER_URL")
		}
		if serverURL == "" {
			serverURL = "http://localhost:8081"
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Journal server base URL (default $JOURNAL_SERVER_URL or http://localhost:8081)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func tokenFilePath() string {
	if p := os.Getenv("JOURNAL_TOKEN_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".journal-tokens.json"
	}
	return filepath.Join(home, ".journal-cli", "tokens.json")
}

func saveTokens(pair client.TokenPair) error {
	path := tokenFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func loadTokens() (client.TokenPair, error) {
	data, err := os.ReadFile(tokenFilePath())
	if err != nil {
		return client.TokenPair{}, errors.New("not logged in, run journal-cli login first")
	}
	var pair client.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return client.TokenPair{}, err
	}
	return pair, nil
}

func newAPI() (*client.API, error) {
	pair, err := loadTokens()
	if err != nil {
		return nil, err
	}
	return client.NewAPI(serverURL, pair), nil
}
