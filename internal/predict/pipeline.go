package predict

import (
	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/dataset"
	"github.com/squidworks/gridiron/internal/scoring"
	"github.com/squidworks/gridiron/internal/season"
)

// Pipeline chains the full prediction flow: raw game records -> scored
// records -> seasonal summaries -> ranked predictions. Every stage produces
// a new generation of records; nothing is updated in place.
type Pipeline struct {
	engine *scoring.Engine
	orch   *Orchestrator
}

// NewPipeline assembles a pipeline from a scoring engine, a predictor, and
// orchestrator options.
func NewPipeline(engine *scoring.Engine, predictor *Predictor, opts Options, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		engine: engine,
		orch:   NewOrchestrator(predictor, opts, log),
	}
}

// Run executes the pipeline over raw game records. An empty input is treated
// as a missing upstream dataset.
func (p *Pipeline) Run(records []dataset.GameRecord) ([]dataset.Prediction, error) {
	if len(records) == 0 {
		return nil, ErrMissingInputData
	}
	scored := p.engine.Apply(records)
	summaries := season.Aggregate(scored)
	return p.orch.Run(summaries)
}

// Summaries exposes the intermediate seasonal aggregation for callers that
// serve per-player history alongside predictions.
func (p *Pipeline) Summaries(records []dataset.GameRecord) []season.Summary {
	return season.Aggregate(p.engine.Apply(records))
}

// TopN defers to the orchestrator's accessor.
func (p *Pipeline) TopN(predictions []dataset.Prediction, n int) []dataset.Prediction {
	return p.orch.TopN(predictions, n)
}
