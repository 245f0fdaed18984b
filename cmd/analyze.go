package cmd

import (
	"flag"
	"fmt"
	"io"
	"math"

	"nontransitive/config"
	"nontransitive/console"
	"nontransitive/dice"
	"nontransitive/fairness"
	"nontransitive/probability"
	"nontransitive/random"
)

// tolerance for a simulated entry to count as agreeing with the exact one
const analyzeTolerance = 0.02

// Analyze compares a Monte-Carlo estimate of the win matrix with the exact
// one and checks that fair draws come out uniform.
func Analyze(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(out)
	trials := fs.Int("trials", cfg.AnalyzeTrials, "rolls per pair of dice and fair draws to simulate")
	seed := fs.Uint64("seed", 0, "seed a reproducible source instead of crypto/rand")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if *trials <= 0 {
		return fmt.Errorf("%w: -trials must be positive", ErrUsage)
	}

	set, err := dice.ParseSet(fs.Args())
	if err != nil {
		return err
	}

	src := random.NewCryptoSource()
	if *seed != 0 {
		src = random.NewSeededSource(*seed)
	}

	exact := probability.Compute(set)
	simulated, err := probability.Simulate(set, src, *trials)
	if err != nil {
		return fmt.Errorf("failed to simulate: %w", err)
	}

	fmt.Fprintf(out, "=== Exact win probabilities ===\n")
	if err := console.RenderTable(out, exact); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n=== Simulated over %d rolls per pair ===\n", *trials)
	if err := console.RenderTable(out, simulated); err != nil {
		return err
	}

	deviation := probability.MaxDeviation(exact, simulated)
	fmt.Fprintf(out, "\nMax deviation: %.4f", deviation)
	printVerdict(out, deviation <= analyzeTolerance)

	for i := 0; i < set.Len(); i++ {
		best, _ := probability.BestResponse(exact, i)
		fmt.Fprintf(out, "Best answer to Dice %d: Dice %d (%s)\n", i+1, best+1, console.FormatProbability(exact.Fraction(best, i)))
	}

	return analyzeFairDraws(out, src, set.MaxFaces(), *trials)
}

// analyzeFairDraws runs commit-reveal rounds with random user numbers and
// reports a chi-squared statistic over the combined results
func analyzeFairDraws(out io.Writer, src random.Source, rangeEnd, trials int) error {
	buckets := make([]int, rangeEnd)
	for n := 0; n < trials; n++ {
		round := fairness.NewRound()
		if _, err := round.Commit(src, rangeEnd); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		userNumber, err := src.IntN(rangeEnd)
		if err != nil {
			return fmt.Errorf("failed to draw user number: %w", err)
		}
		res, err := round.Reveal(userNumber)
		if err != nil {
			return fmt.Errorf("failed to reveal: %w", err)
		}
		if !res.Verify() {
			return fmt.Errorf("round %d failed its own verification", n)
		}
		buckets[res.Value]++
	}

	chi := probability.ChiSquared(buckets)
	critical := chiSquaredCritical(rangeEnd - 1)

	fmt.Fprintf(out, "\n=== Fair draws over [0, %d) ===\n", rangeEnd)
	for v, c := range buckets {
		fmt.Fprintf(out, "%d: %d (%.2f%%)\n", v, c, float64(c)*100/float64(trials))
	}
	fmt.Fprintf(out, "χ²: %.2f (critical %.2f at p=0.001)", chi, critical)
	printVerdict(out, chi <= critical)
	return nil
}

func printVerdict(out io.Writer, pass bool) {
	if pass {
		fmt.Fprintln(out, " ✓ PASS")
	} else {
		fmt.Fprintln(out, " ✗ FAIL")
	}
}

// chiSquaredCritical approximates the p=0.001 critical value with the
// Wilson-Hilferty transform
func chiSquaredCritical(df int) float64 {
	if df <= 0 {
		return 0
	}
	const z = 3.090232 // standard normal quantile at 0.999
	k := float64(df)
	h := 2 / (9 * k)
	return k * math.Pow(1-h+z*math.Sqrt(h), 3)
}
