// Package main provides a performance benchmarking tool for the greenscore CLI.
// It measures execution times of analyze, check and optimize across source
// corpora of different sizes, running each test multiple times, treating the
// first successful run as cold and averaging the rest as warm, and writes CSV
// output for performance analysis and documentation.
//
// Prerequisites:
// - greenscore binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: requests, express, guava, redis
//
// Usage: go run benchmark/main.go [repo-base-dir]
//
//	repo-base-dir: Directory containing test repositories
package main

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-history average, cold run and average of warm runs).
type BenchmarkResult struct {
	Repository    string
	Command       string
	Files         int
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase       string
	Timeout        time.Duration
	Workers        int
	MaxFiles       int
	NoHistoryRuns  int
	HistoryRuns    int
	TestRepos      []string
	RepoExtensions map[string]string
	OptimizeFiles  map[string]string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	repoBase := os.Args[1]

	config := BenchmarkConfig{
		RepoBase:      repoBase,
		Timeout:       5 * time.Minute,
		Workers:       14,
		MaxFiles:      500,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		TestRepos:     []string{"requests", "express", "guava", "redis"},
		RepoExtensions: map[string]string{
			"requests": ".py",
			"express":  ".js",
			"guava":    ".java",
			"redis":    ".c",
		},
		OptimizeFiles: map[string]string{
			"requests": "src/requests/models.py",
			"express":  "lib/response.js",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start from an empty history so cold runs are comparable
	fmt.Printf("Clearing history...\n")
	clearCmd := exec.Command("greenscore", "history", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("History cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that greenscore binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("greenscore"); err != nil {
		return fmt.Errorf("greenscore binary not found in PATH")
	}

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}

	return nil
}

// collectFiles returns up to limit source files with the given extension, relative to root.
func collectFiles(root, ext string, limit int) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules" || d.Name() == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		if len(files) >= limit {
			return fs.SkipAll
		}
		return nil
	})
	return files, err
}

// runBenchmarks executes all benchmark tests across configured repositories
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, %d workers, no-history: %d runs, history: %d runs\n",
		len(config.TestRepos), config.Timeout, config.Workers, config.NoHistoryRuns, config.HistoryRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)

		repoPath := filepath.Join(config.RepoBase, repo)
		files, err := collectFiles(repoPath, config.RepoExtensions[repo], config.MaxFiles)
		if err != nil || len(files) == 0 {
			fmt.Printf("  Skipping %s: no source files (%v)\n", repo, err)
			continue
		}

		results = append(results, runBenchmarkSuite(config, repo, repoPath, "analyze", files))
		results = append(results, runBenchmarkSuite(config, repo, repoPath, "check", files))

		if file, ok := config.OptimizeFiles[repo]; ok {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, "optimize", []string{file}))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath, command string, files []string) BenchmarkResult {
	fmt.Printf("Running %s on %s (%d files)\n", command, repo, len(files))

	// Helper to run a benchmark phase
	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, repoPath, command, files, historyBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No history
	_, noHistoryAvg := runPhase("none", config.NoHistoryRuns, "No-history")

	// Phase 2: Recording into SQLite
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Repository:    repo,
		Command:       command,
		Files:         len(files),
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a greenscore command multiple times with the given history backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, repoPath, command string, files []string, historyBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, "--history-backend", historyBackend, "--workers", fmt.Sprint(config.Workers)}
	if command == "analyze" && historyBackend != "none" {
		args = append(args, "--record")
	}
	args = append(args, files...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("greenscore", args...)
		cmd.Dir = repoPath

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if isSuccess(output, command, cmdErr) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
// A failed policy check still counts since the full report was produced.
func isSuccess(output []byte, command string, cmdErr error) bool {
	outputStr := string(output)

	switch command {
	case "check":
		return strings.Contains(outputStr, "Checked")
	case "optimize":
		return cmdErr == nil && strings.Contains(outputStr, "Green Score")
	default:
		return cmdErr == nil && strings.Contains(outputStr, "Analyzed") && strings.Contains(outputStr, "workers")
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/greenscore_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "cmd", "files", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{result.Repository, result.Command, fmt.Sprint(result.Files), result.NoHistoryTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "analyze", "Analyze:")
	printCommandSummary(results, "check", "Check:")
	printCommandSummary(results, "optimize", "Optimize:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-10s (%3d files): No-history: %s, Cold: %s, Warm: %s\n",
				result.Repository, result.Files, result.NoHistoryTime, result.ColdTime, result.WarmTime)
		}
	}
}
