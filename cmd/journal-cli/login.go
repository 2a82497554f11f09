package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fahad9993/expense-tracker-gsheet/internal/client"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the journal server and store the tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)

		username := loginUsername
		if username == "" {
			fmt.Print("Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			username = strings.TrimSpace(line)
		}
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password := strings.TrimSpace(line)

		api := client.NewAPI(serverURL, client.TokenPair{})
		if err := api.Login(context.Background(), username, password); err != nil {
			return err
		}
		if err := saveTokens(api.Tokens()); err != nil {
			return fmt.Errorf("save tokens: %w", err)
		}
		logger.Info("logged in", "server", serverURL, "user", username)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}
