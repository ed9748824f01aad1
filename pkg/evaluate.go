package pkg

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"carprep/pkg/io"
	"carprep/pkg/metrics"
)

type Scores struct {
	Count int
	RMSE  float64
	MAE   float64
}

// Evaluate reports the RMSE and MAE of the predictions in inputFile against the true prices.
func Evaluate(inputFile, trueColumn, predictedColumn string) (Scores, error) {
	yTrue, yPred, dataErrors, err := io.LoadPredictions(inputFile, trueColumn, predictedColumn)
	if err != nil {
		return Scores{}, fmt.Errorf("error loading predictions from %s: %w", inputFile, err)
	}
	printDataErrors(dataErrors)
	if len(yTrue) == 0 {
		return Scores{}, errors.New("no predictions to evaluate")
	}

	rmse, err := metrics.RMSE(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}
	mae, err := metrics.MAE(yTrue, yPred)
	if err != nil {
		return Scores{}, err
	}

	scores := Scores{Count: len(yTrue), RMSE: rmse, MAE: mae}
	log.Info().Int("Count", scores.Count).Float64("RMSE", scores.RMSE).Float64("MAE", scores.MAE).Msg("")
	return scores, nil
}
