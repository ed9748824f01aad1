package pkg

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"carprep/pkg/frame"
	"carprep/pkg/io"
)

type SplitParameters struct {
	InputFile    string
	OutputDir    string
	ValFraction  float64
	TestFraction float64
	Shuffle      bool
	RndSeed      uint64
}

// Split partitions a raw CSV file into train, validation and test files. Cell values are copied
// unchanged. Rows that cannot be read are logged and left out.
func Split(p SplitParameters) error {
	table, dataErrors, err := io.LoadTable(p.InputFile)
	if err != nil {
		return err
	}
	printDataErrors(dataErrors)

	train, val, test, err := frame.SplitFractions(table.Rows(), p.ValFraction, p.TestFraction)
	if err != nil {
		return err
	}
	order := frame.OriginalOrder
	if p.Shuffle {
		order = frame.RandomOrder
	}
	parts, err := frame.Split(table, order, rand.NewSource(p.RndSeed), train, val, test)
	if err != nil {
		return err
	}

	for i, name := range []string{TrainOutput, ValOutput, TestOutput} {
		path := filepath.Join(p.OutputDir, name)
		if err := io.SaveTable(parts[i], path); err != nil {
			return fmt.Errorf("error saving %s: %w", path, err)
		}
		log.Info().Str("File", path).Int("Rows", parts[i].Rows()).Msg("Wrote split")
	}
	return nil
}
