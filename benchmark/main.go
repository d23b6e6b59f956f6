// Package main provides a performance benchmarking tool for the Coach CLI.
// It generates synthetic practice histories of different sizes, imports each one into
// a fresh SQLite store and measures execution times of the engine commands,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - coach binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated datasets and stores (default: a temp dir)
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// Dataset describes a synthetic practice history.
type Dataset struct {
	Name     string
	Subjects int
	Topics   int // Per subject
	Records  int // Per topic
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir  string
	Timeout  time.Duration
	Runs     int
	Datasets []Dataset
	Commands map[string]string // Name -> arguments
}

// commandOrder fixes the order in which commands run and are summarized.
var commandOrder = []string{"project-5k", "project-100k", "recommend", "goals"}

func main() {
	workDir := ""
	switch len(os.Args) {
	case 1:
		dir, err := os.MkdirTemp("", "coach-benchmark-*")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = os.RemoveAll(dir) }()
		workDir = dir
	case 2:
		workDir = os.Args[1]
	default:
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 5 * time.Minute,
		Runs:    4,
		Datasets: []Dataset{
			{Name: "small", Subjects: 3, Topics: 5, Records: 10},
			{Name: "medium", Subjects: 10, Topics: 20, Records: 50},
			{Name: "large", Subjects: 25, Topics: 40, Records: 200},
		},
		Commands: map[string]string{
			"project-5k":   `project --deadline "in 30 days" --trials 5000 --limit 1000`,
			"project-100k": `project --deadline "in 30 days" --trials 100000 --limit 1000`,
			"recommend":    `recommend --deadline "in 30 days" --limit 1000`,
			"goals":        `goals --deadline "in 30 days" --limit 1000`,
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the coach binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("coach"); err != nil {
		return fmt.Errorf("coach binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d runs per command\n",
		len(config.Datasets), config.Timeout, config.Runs)

	for _, ds := range config.Datasets {
		fmt.Printf("Benchmarking %s (%d records)\n", ds.Name, ds.Subjects*ds.Topics*ds.Records)

		env, err := prepareDataset(config.WorkDir, ds)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
		}

		for _, name := range commandOrder {
			result := runBenchmarkSuite(config, ds.Name, env, name, config.Commands[name])
			results = append(results, result)
		}
	}

	return results, nil
}

// prepareDataset writes a synthetic CSV and imports it into a fresh SQLite store.
// It returns the environment pointing coach at that store.
func prepareDataset(workDir string, ds Dataset) ([]string, error) {
	dbPath := filepath.Join(workDir, ds.Name+".db")
	csvPath := filepath.Join(workDir, ds.Name+".csv")
	_ = os.Remove(dbPath)

	if err := writeDataset(csvPath, ds); err != nil {
		return nil, err
	}

	env := append(os.Environ(), "COACH_BACKEND=sqlite", "COACH_DB_CONNECT="+dbPath, "COACH_COLOR=no")
	cmd := exec.Command("coach", "records", "import", csvPath)
	cmd.Env = env
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("import failed: %w\nOutput: %s", err, string(output))
	}
	return env, nil
}

// writeDataset generates results spread over the last 90 days with per-topic skill levels.
func writeDataset(path string, ds Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	rng := rand.New(rand.NewPCG(uint64(ds.Subjects), uint64(ds.Topics)))
	start := time.Now().AddDate(0, 0, -90)

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"date", "subject", "topic", "correct", "total"}); err != nil {
		return err
	}
	for s := range ds.Subjects {
		subject := fmt.Sprintf("subject-%02d", s)
		for tp := range ds.Topics {
			topic := fmt.Sprintf("%s-topic-%02d", subject, tp)
			skill := 0.3 + 0.6*rng.Float64()
			for range ds.Records {
				total := 10 + rng.IntN(20)
				correct := 0
				for range total {
					if rng.Float64() < skill {
						correct++
					}
				}
				taken := start.Add(time.Duration(rng.Int64N(int64(90 * 24 * time.Hour))))
				row := []string{taken.Format(time.RFC3339), subject, topic, strconv.Itoa(correct), strconv.Itoa(total)}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarkSuite runs one command repeatedly against a prepared dataset
func runBenchmarkSuite(config BenchmarkConfig, dataset string, env []string, name, argsStr string) BenchmarkResult {
	fmt.Printf("  Running %s (%d runs)\n", name, config.Runs)

	cold, warm := runBenchmark(config, env, parseArgs(argsStr), config.Runs)

	coldTimeStr := "TIMEOUT"
	if cold > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", cold)
	}
	warmAvg := "TIMEOUT"
	if len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  name,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a coach command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, env, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("coach", args...)
		cmd.Env = env

		done := make(chan bool, 1)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.Output()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, args[0]) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	var completionPhrase string
	switch command {
	case "project":
		completionPhrase = "Projection completed in"
	case "recommend":
		completionPhrase = "Ranked"
	default:
		completionPhrase = "Generated"
	}
	return strings.Contains(string(output), completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("coach_benchmark_%s.csv", timestamp))

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

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, name := range commandOrder {
		fmt.Printf("%s:\n", name)
		for _, result := range results {
			if result.Command == name {
				fmt.Printf("  %-8s: Cold: %s, Warm: %s\n", result.Dataset, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
