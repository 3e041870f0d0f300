package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(seasonCmd)
	rootCmd.AddCommand(resetSeasonCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerStatsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(metricsCmd)

	leaderboardCmd.Flags().Int("limit", 0, "Number of entries to show (0 = all)")
	leaderboardCmd.Flags().Bool("broadcast", false, "Also post the standings to the club channel")
	calculateCmd.Flags().Int("position", 1, "Final placement")
	calculateCmd.Flags().String("rank", "", "Player rank code, e.g. H+")
	calculateCmd.Flags().String("type", "", "Tournament type: season, open or club")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health")
	},
}

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show the current season window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/season")
	},
}

var resetSeasonCmd = &cobra.Command{
	Use:   "reset-season",
	Short: "Archive the closing quarter and start everyone at zero (privileged)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/season/reset")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players")
	},
}

var playerStatsCmd = &cobra.Command{
	Use:   "player-stats <playerID>",
	Short: "Show a player's season stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players/stats?playerId="+url.QueryEscape(args[0]))
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the SPA points leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		broadcast, _ := cmd.Flags().GetBool("broadcast")

		params := url.Values{}
		if limit > 0 {
			params.Set("limit", fmt.Sprint(limit))
		}
		if broadcast {
			params.Set("broadcast", "true")
		}
		endpoint := "/leaderboard"
		if encoded := params.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
		return performRequest(http.MethodGet, endpoint)
	},
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Preview tournament points for a placement (no side effects)",
	RunE: func(cmd *cobra.Command, args []string) error {
		position, _ := cmd.Flags().GetInt("position")
		rank, _ := cmd.Flags().GetString("rank")
		tournamentType, _ := cmd.Flags().GetString("type")

		params := url.Values{}
		params.Set("position", fmt.Sprint(position))
		params.Set("rank", rank)
		params.Set("type", tournamentType)
		return performRequest(http.MethodGet, "/tournaments/calculate?"+params.Encode())
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics")
	},
}

func performRequest(method, endpoint string) error {
	fullURL := host + endpoint
	fmt.Printf("Making request to %s\n", fullURL)

	req, err := http.NewRequest(method, fullURL, strings.NewReader(""))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
