package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	date   string
	courts int
)

func init() {
	planCmd.Flags().StringVar(&date, "date", "", "Session date (YYYY-MM-DD), defaults to today")
	planCmd.Flags().IntVar(&courts, "courts", 2, "Number of available courts")
	attendCmd.Flags().StringVar(&date, "date", "", "Session date (YYYY-MM-DD), defaults to today")
	mvpCmd.Flags().StringVar(&date, "date", "", "Session date (YYYY-MM-DD), defaults to today")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(addPlayerCmd)
	rootCmd.AddCommand(attendCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(roundCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(rivalCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(mvpCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var addPlayerCmd = &cobra.Command{
	Use:   "add-player [name]",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/players", map[string]any{"name": args[0]})
	},
}

var attendCmd = &cobra.Command{
	Use:   "attend [name...]",
	Short: "Record attendance for players by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/attendance", map[string]any{"date": date, "names": args})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan the next round from today's attendance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/plan-round", map[string]any{"date": date, "courts": courts})
	},
}

var roundCmd = &cobra.Command{
	Use:   "round [index]",
	Short: "Show the open round, or a round by index",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performGetRequest("/round?index=" + args[0])
		}
		return performGetRequest("/round")
	},
}

var recordCmd = &cobra.Command{
	Use:   "record [round] [match] [side]",
	Short: "Record the winning side (1 or 2) of a match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		roundIndex, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid round index: %w", err)
		}
		matchID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid match id: %w", err)
		}
		side, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid side: %w", err)
		}
		return performPostRequest("/record-winner", map[string]any{
			"round_index": roundIndex,
			"match_id":    matchID,
			"side":        side,
		})
	},
}

var closeCmd = &cobra.Command{
	Use:   "close [round]",
	Short: "Close a round and commit its results to the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roundIndex, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid round index: %w", err)
		}
		return performPostRequest("/close-round", map[string]any{"round_index": roundIndex})
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the league standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/standings")
	},
}

var rivalCmd = &cobra.Command{
	Use:   "rival",
	Short: "Show the league's closest rivalry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/rival")
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "List the match archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/archive")
	},
}

var mvpCmd = &cobra.Command{
	Use:   "mvp",
	Short: "Show the MVP(s) of a session date",
	RunE: func(cmd *cobra.Command, args []string) error {
		if date != "" {
			return performGetRequest("/mvp?date=" + date)
		}
		return performGetRequest("/mvp")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(strings.TrimRight(string(body), "\n"))

	return nil
}
