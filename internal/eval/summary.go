package eval

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
)

// Tiers buckets episodes by score.
type Tiers struct {
	Expert   int // >= 20
	Good     int // 10-19
	Moderate int // 5-9
	Beginner int // < 5
}

// Summary aggregates a run's episodes.
type Summary struct {
	Episodes int

	MeanReward float64
	StdReward  float64
	MeanScore  float64
	StdScore   float64
	MaxScore   int
	MeanLength float64
	MaxLength  int

	MeanSteps   float64
	MaxSteps    int
	MedianSteps int
	Q1Steps     int
	Q3Steps     int

	CrashRate   float64
	TimeoutRate float64
	Accuracy    float64 // Hits over all clicks/catches across the run

	Tiers Tiers

	ActionCounts   []int     // Totals per discrete action
	ActionVariance []float64 // Mean per-episode variance per continuous axis
}

// Summarize computes run statistics. Standard deviations are population
// deviations and quartiles are taken by index into the sorted step counts.
func Summarize(results []EpisodeResult) Summary {
	n := len(results)
	s := Summary{Episodes: n}
	if n == 0 {
		return s
	}

	rewards := make([]float64, n)
	scores := make([]float64, n)
	steps := make([]int, n)
	var hits, clicks int
	var crashed, truncated int

	for i, r := range results {
		rewards[i] = r.Return
		scores[i] = float64(r.Score)
		steps[i] = r.Steps

		s.MeanLength += float64(r.Length)
		s.MeanSteps += float64(r.Steps)
		s.MaxScore = max(s.MaxScore, r.Score)
		s.MaxLength = max(s.MaxLength, r.Length)
		s.MaxSteps = max(s.MaxSteps, r.Steps)

		hits += r.Hits
		clicks += r.Hits + r.Misses
		if r.Terminated {
			crashed++
		}
		if r.Truncated {
			truncated++
		}

		switch {
		case r.Score >= 20:
			s.Tiers.Expert++
		case r.Score >= 10:
			s.Tiers.Good++
		case r.Score >= 5:
			s.Tiers.Moderate++
		default:
			s.Tiers.Beginner++
		}

		if r.ActionCounts != nil {
			if s.ActionCounts == nil {
				s.ActionCounts = make([]int, len(r.ActionCounts))
			}
			for a, c := range r.ActionCounts {
				if a < len(s.ActionCounts) {
					s.ActionCounts[a] += c
				}
			}
		}
		if r.AxisVariance != nil {
			if s.ActionVariance == nil {
				s.ActionVariance = make([]float64, len(r.AxisVariance))
			}
			for a, v := range r.AxisVariance {
				if a < len(s.ActionVariance) {
					s.ActionVariance[a] += v / float64(n)
				}
			}
		}
	}

	fn := float64(n)
	s.MeanReward, s.StdReward = meanStd(rewards)
	s.MeanScore, s.StdScore = meanStd(scores)
	s.MeanLength /= fn
	s.MeanSteps /= fn
	s.CrashRate = float64(crashed) / fn
	s.TimeoutRate = float64(truncated) / fn
	if clicks > 0 {
		s.Accuracy = float64(hits) / float64(clicks)
	}

	slices.Sort(steps)
	s.MedianSteps = steps[n/2]
	s.Q1Steps = steps[n/4]
	s.Q3Steps = steps[3*n/4]

	return s
}

func meanStd(xs []float64) (float64, float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

// Print writes a human-readable report.
func (r *Report) Print(w io.Writer, actionNames []string) {
	s := r.Summary
	rule := strings.Repeat("-", 40)

	fmt.Fprintf(w, "Evaluation %s\n", r.RunID)
	fmt.Fprintf(w, "Env: %s  Policy: %s  Base seed: %d\n", r.Config.EnvID, r.Config.Policy, r.Config.BaseSeed)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Episodes:        %d\n", s.Episodes)
	fmt.Fprintf(w, "Mean Reward:     %.2f ± %.2f\n", s.MeanReward, s.StdReward)
	fmt.Fprintf(w, "Mean Score:      %.2f ± %.2f (Best: %d)\n", s.MeanScore, s.StdScore, s.MaxScore)
	if s.MaxLength > 0 {
		fmt.Fprintf(w, "Mean Length:     %.1f (Best: %d)\n", s.MeanLength, s.MaxLength)
	}
	fmt.Fprintf(w, "Mean Steps:      %.1f\n", s.MeanSteps)
	fmt.Fprintf(w, "Accuracy:        %.1f%%\n", s.Accuracy*100)
	fmt.Fprintf(w, "Crash Rate:      %.1f%%\n", s.CrashRate*100)
	fmt.Fprintf(w, "Timeout Rate:    %.1f%%\n", s.TimeoutRate*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, rule)
	pct := func(c int) float64 { return float64(c) / float64(max(s.Episodes, 1)) * 100 }
	fmt.Fprintf(w, "Expert (>=20):   %d episodes (%.1f%%)\n", s.Tiers.Expert, pct(s.Tiers.Expert))
	fmt.Fprintf(w, "Good (10-19):    %d episodes (%.1f%%)\n", s.Tiers.Good, pct(s.Tiers.Good))
	fmt.Fprintf(w, "Moderate (5-9):  %d episodes (%.1f%%)\n", s.Tiers.Moderate, pct(s.Tiers.Moderate))
	fmt.Fprintf(w, "Beginner (<5):   %d episodes (%.1f%%)\n", s.Tiers.Beginner, pct(s.Tiers.Beginner))

	if len(s.ActionCounts) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Actions")
		fmt.Fprintln(w, rule)
		total := 0
		for _, c := range s.ActionCounts {
			total += c
		}
		for a, c := range s.ActionCounts {
			name := fmt.Sprintf("%d", a)
			if a < len(actionNames) {
				name = actionNames[a]
			}
			fmt.Fprintf(w, "%-8s %7d (%5.1f%%)\n", name+":", c, float64(c)/float64(max(total, 1))*100)
		}
	}
	if len(s.ActionVariance) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Actions")
		fmt.Fprintln(w, rule)
		for a, v := range s.ActionVariance {
			fmt.Fprintf(w, "Avg variance axis %d: %.4f\n", a, v)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Survival Time")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Median:          %d steps\n", s.MedianSteps)
	fmt.Fprintf(w, "25th Percentile: %d steps\n", s.Q1Steps)
	fmt.Fprintf(w, "75th Percentile: %d steps\n", s.Q3Steps)
	fmt.Fprintf(w, "Longest:         %d steps\n", s.MaxSteps)
}
