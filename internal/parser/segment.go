package parser

import (
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pable/cs-logstats/internal/model"
)

const matchStartMarker = "Match_Start"

// classifyChunk is the number of lines handed to one classification worker.
const classifyChunk = 2048

// Parse splits raw into lines, classifies them and assigns round numbers.
func Parse(raw string) ([]model.MatchEvent, []model.Round) {
	lines := SplitLines(raw)
	start := FindMatchStart(lines)
	events := ClassifyAll(lines, start)
	rounds := Segment(events)

	slog.Debug("Parsed log", slog.Int("lines", len(lines)), slog.Int("match_start", start),
		slog.Int("rounds", len(rounds)))

	return events, rounds
}

// SplitLines splits on LF and drops a trailing CR from each line.
func SplitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// FindMatchStart returns the index of the last line containing Match_Start.
// Lines before it are warmup. Logs often contain several restarts (knife
// rounds, aborted starts) and only the last one counts. A log with no marker
// never went live: len(lines) is returned so every line is warmup.
func FindMatchStart(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], matchStartMarker) {
			return i
		}
	}
	slog.Warn("No Match_Start marker found, treating the whole log as warmup")

	return len(lines)
}

// ClassifyAll classifies every line. Lines are independent, so chunks are
// classified concurrently; each worker owns a disjoint range of the output.
func ClassifyAll(lines []string, matchStart int) []model.MatchEvent {
	events := make([]model.MatchEvent, len(lines))

	var group errgroup.Group
	group.SetLimit(runtime.GOMAXPROCS(0))

	for lo := 0; lo < len(lines); lo += classifyChunk {
		hi := min(lo+classifyChunk, len(lines))
		group.Go(func() error {
			for i := lo; i < hi; i++ {
				events[i] = Classify(lines[i], i, i < matchStart)
			}
			return nil
		})
	}
	// Workers never return an error; the group only bounds concurrency.
	_ = group.Wait()

	return events
}

// Segment assigns round numbers in place and returns the rounds closed by
// live Round_End events. A Round_End during warmup neither opens nor closes a
// round. Events after the final Round_End carry a round number with no
// matching Round and are ignored downstream.
func Segment(events []model.MatchEvent) []model.Round {
	var rounds []model.Round
	number := 1
	for i := range events {
		ev := &events[i]
		if ev.IsWarmup {
			ev.RoundNumber = 0
			continue
		}
		ev.RoundNumber = number
		if ev.Kind == model.KindRoundEnd {
			rounds = append(rounds, model.Round{Number: number})
			number++
		}
	}
	return rounds
}
