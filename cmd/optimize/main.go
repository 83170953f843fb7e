// Package main tunes a foraging policy with CMA-ES, scoring each candidate
// by its mean training episode reward. The scripted policies are tuned
// through their gains, the neural policy through its weights.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/hummingbird/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	policyKind := flag.String("policy", "seek", "Policy to tune (seek, tree or neural)")
	episodes := flag.Int("episodes", 5, "Episodes per arena and seed")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	var enc Encoding
	switch *policyKind {
	case "seek", "tree":
		enc = NewParamVector()
	case "neural":
		enc = NewWeightVector(42)
	default:
		log.Fatalf("--policy must be seek, tree or neural, got %q", *policyKind)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg.Policy.Kind = *policyKind

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(enc, *episodes, evalSeeds, baseCfg)

	dim := enc.Dim()
	initX := enc.Initial(baseCfg)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(enc.Decode(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Seeds already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		if *policyKind == "neural" {
			popSize = 4 + int(3*math.Log(float64(dim)))
		} else {
			popSize = 4 + int(3.0*float64(dim)/2.0)
		}
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := append([]string{"eval", "fitness", "nectar"}, enc.Columns()...)
	logWriter.Write(header)
	logValues := len(enc.Columns()) > 0

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := enc.Decode(x)
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		nectar := evaluator.LastNectar()
		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.6f", nectar)}
		if logValues {
			for _, v := range clamped {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
		}
		logWriter.Write(row)
		logWriter.Flush()

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: reward=%.3f nectar=%.3f (best=%.3f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, -fitness, nectar, -bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, episodes per arena: %d\n", *seeds, *episodes)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = enc.Decode(result.X)
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best mean reward: %.3f\n", -bestFitness)

	if bestParams != nil {
		fmt.Println("\nBest result:")
		if err := enc.Save(*outputDir, baseCfg, bestParams); err != nil {
			log.Printf("failed to save result: %v", err)
		}
	}

	if best := evaluator.BestEpisodes(); best != nil {
		bestPath := filepath.Join(*outputDir, "best_episodes.json")
		data, err := json.MarshalIndent(best, "", "  ")
		if err != nil {
			log.Printf("failed to marshal best episodes: %v", err)
		} else if err := os.WriteFile(bestPath, data, 0644); err != nil {
			log.Printf("failed to write best episodes: %v", err)
		} else {
			fmt.Printf("Best episodes saved to: %s\n", bestPath)
		}
	}
}
