package predict

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/season"
)

// Options controls eligibility filtering and execution of a prediction run.
type Options struct {
	// MinSeasonsPlayed is the minimum number of seasonal summary rows a
	// player needs to be eligible.
	MinSeasonsPlayed int

	// PositionFilters restricts eligibility to enabled positions. An empty
	// map, or one with no position enabled, disables the filter.
	PositionFilters map[string]bool

	// TopN is the default size of the TopN accessor when the caller does not
	// pass an explicit n.
	TopN int

	// Workers bounds the per-player prediction pool. Values below 1 fall
	// back to 1.
	Workers int
}

// Orchestrator runs the per-player prediction loop over a seasonal summary
// table and assembles the ranked result set.
type Orchestrator struct {
	predictor *Predictor
	opts      Options
	log       *logrus.Logger
}

// NewOrchestrator creates an orchestrator. A nil logger gets the logrus
// standard logger.
func NewOrchestrator(predictor *Predictor, opts Options, log *logrus.Logger) *Orchestrator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.MinSeasonsPlayed < 1 {
		opts.MinSeasonsPlayed = 2
	}
	if opts.TopN < 1 {
		opts.TopN = 50
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{predictor: predictor, opts: opts, log: log}
}

// Run predicts every eligible player and returns the result set sorted by
// predicted season fantasy points, descending. Ties keep their pre-sort
// relative order. A player whose prediction fails is logged and skipped;
// only a fully empty result set is an error (ErrNoPredictions).
func (o *Orchestrator) Run(summaries []season.Summary) ([]dataset.Prediction, error) {
	byPlayer := make(map[string][]season.Summary)
	var playerOrder []string
	for _, s := range summaries {
		if _, seen := byPlayer[s.PlayerID]; !seen {
			playerOrder = append(playerOrder, s.PlayerID)
		}
		byPlayer[s.PlayerID] = append(byPlayer[s.PlayerID], s)
	}

	allowed := enabledPositions(o.opts.PositionFilters)

	var eligible []string
	for _, id := range playerOrder {
		history := byPlayer[id]
		if len(history) < o.opts.MinSeasonsPlayed {
			continue
		}
		if allowed != nil && !hasAllowedPosition(history, allowed) {
			continue
		}
		eligible = append(eligible, id)
	}
	o.log.WithField("eligible_players", len(eligible)).Debug("running predictions")

	// Each worker reads the shared summary table and writes only to its own
	// slot; ordering comes from the sort below, never from completion order.
	results := make([]*dataset.Prediction, len(eligible))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.predictOne(eligible[i], byPlayer[eligible[i]])
			}
		}()
	}
	for i := range eligible {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	predictions := make([]dataset.Prediction, 0, len(eligible))
	for _, p := range results {
		if p != nil {
			predictions = append(predictions, *p)
		}
	}

	if len(predictions) == 0 {
		return nil, fmt.Errorf("%w (eligible players: %d)", ErrNoPredictions, len(eligible))
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].PredictedSeasonFP > predictions[j].PredictedSeasonFP
	})
	return predictions, nil
}

// predictOne isolates a single player's prediction; a panic is recovered and
// logged so one bad player never aborts the batch.
func (o *Orchestrator) predictOne(playerID string, history []season.Summary) (pred *dataset.Prediction) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithFields(logrus.Fields{
				"player_id": playerID,
				"panic":     r,
			}).Warn("prediction failed for player, skipping")
			pred = nil
		}
	}()
	return o.predictor.PredictPlayer(history)
}

// TopN returns the first n rows of a sorted prediction set. n <= 0 uses the
// configured default; n beyond the set size returns the whole set.
func (o *Orchestrator) TopN(predictions []dataset.Prediction, n int) []dataset.Prediction {
	if n <= 0 {
		n = o.opts.TopN
	}
	if n > len(predictions) {
		n = len(predictions)
	}
	return predictions[:n]
}

func enabledPositions(filters map[string]bool) map[dataset.Position]bool {
	var allowed map[dataset.Position]bool
	for pos, enabled := range filters {
		if !enabled {
			continue
		}
		if allowed == nil {
			allowed = make(map[dataset.Position]bool)
		}
		allowed[dataset.Position(strings.ToUpper(pos))] = true
	}
	return allowed
}

func hasAllowedPosition(history []season.Summary, allowed map[dataset.Position]bool) bool {
	for _, s := range history {
		if allowed[s.Position] {
			return true
		}
	}
	return false
}
