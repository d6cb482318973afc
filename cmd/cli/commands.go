package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(archivesCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [callsign] [password]",
	Short: "Log in as a captain and print the session token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/login", map[string]string{
			"callsign": args[0],
			"password": args[1],
		})
	},
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the players on the roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/roster")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the recorded matches of the current season",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the team dashboard summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/summary")
	},
}

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List archived seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/archives")
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive [name]",
	Short: "Archive the current season under the given name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/season/archive", map[string]string{
			"name": args[0],
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the advisor for a lineup over an empty planner",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/lineup/suggest", map[string]any{})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performPostRequest(endpoint string, payload any) error {
	return performRequest(http.MethodPost, endpoint, payload)
}

func performRequest(method, endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
