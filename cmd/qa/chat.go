package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docqa/internal/client"
)

func newChatCmd() *cobra.Command {
	var (
		server    string
		sessionID string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "chat MESSAGE",
		Short: "Send one chat message to a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireServer(server); err != nil {
				return err
			}
			if err := validateOutput(output); err != nil {
				return err
			}

			resp, err := client.New(server).Chat(cmd.Context(), args[0], sessionID)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), output, resp)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "API server base URL")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id to continue; a new one is created when empty")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "history SESSION_ID",
		Short: "Print the messages of a chat session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireServer(server); err != nil {
				return err
			}

			history, err := client.New(server).History(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n", history.SessionID)
			for _, m := range history.Messages {
				fmt.Fprintf(out, "%s: %s\n", m.Role, m.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "API server base URL")

	return cmd
}
