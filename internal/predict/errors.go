package predict

import "errors"

var (
	// ErrMissingInputData means the upstream player-stats dataset is absent.
	// The data fetch has to run before predictions can.
	ErrMissingInputData = errors.New("player stats dataset not found: run the data fetch first")

	// ErrNoPredictions means eligibility filtering plus per-player processing
	// produced zero predictions.
	ErrNoPredictions = errors.New("no predictions generated: check data and filters")
)
