package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/neon-runner/internal/platform/tui"
	"github.com/vovakirdan/neon-runner/internal/storage"
)

var (
	flagRuns  bool
	flagLimit int
	flagClear bool
	flagTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the best racers, or the best individual runs with --runs.

Examples:
  neonrun scores
  neonrun scores --runs --limit 20
  neonrun scores --tui
  neonrun scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagRuns, "runs", false, "List individual runs instead of racers")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rows")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all recorded runs and reset personal bests")
	scoresCmd.Flags().BoolVar(&flagTUI, "tui", false, "Browse the leaderboard interactively")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(storage.GameID); err != nil {
			return err
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	if flagTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, flagPlayer, width, height)
	}

	if flagRuns {
		return printRuns(store)
	}
	return printRacers(store)
}

func printRacers(store *storage.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	players, err := store.TopPlayers(ctx, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Neon Runner - Top Racers")
	fmt.Println()

	if len(players) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'neonrun play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-24s  %-8s  %s\n", "Rank", "Racer", "Best", "Runs")
	fmt.Printf("  %-4s  %-24s  %-8s  %s\n", "----", "-----", "----", "----")
	for i, p := range players {
		fmt.Printf("  %-4d  %-24s  %-8d  %d\n", i+1, p.Username, p.BestScore, p.Runs)
	}

	printStats(store)
	return nil
}

func printRuns(store *storage.Store) error {
	scores, err := store.TopScores(storage.GameID, flagLimit)
	if err != nil {
		return err
	}

	fmt.Println("Neon Runner - Top Runs")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-24s  %-8s  %s\n", "Rank", "Racer", "Score", "Date")
	fmt.Printf("  %-4s  %-24s  %-8s  %s\n", "----", "-----", "-----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-24s  %-8d  %s\n", i+1, e.Player, e.Score, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	printStats(store)
	return nil
}

func printStats(store *storage.Store) {
	stats, err := store.GetGameStats(storage.GameID)
	if err != nil {
		return
	}
	fmt.Println()
	fmt.Printf("Runs: %d  |  Racers: %d  |  Best: %d  |  Average: %.1f\n",
		stats.GamesCount, stats.Players, stats.HighScore, stats.AvgScore)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("Last run: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	}
}
