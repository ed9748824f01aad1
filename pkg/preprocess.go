package pkg

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/frame"
	"carprep/pkg/io"
	"carprep/pkg/preprocess"
)

const (
	TrainOutput = "train.csv"
	ValOutput   = "val.csv"
	TestOutput  = "test.csv"
)

type PreprocessParameters struct {
	TrainFile  string
	ValFile    string
	TestFile   string
	OutputDir  string
	ConfigFile string
	// StateFile, when set, receives the fitted encoders.
	StateFile string
	RndSeed   uint64
}

// LoadConfig reads the YAML configuration at path, or returns the default configuration when
// path is empty.
func LoadConfig(path string) (config.Preprocessor, error) {
	if path == "" {
		log.Debug().Msg("Using default configuration")
		return config.Default(), nil
	}
	return config.Load(path)
}

// Preprocess fits the encoders on the training file and writes the encoded train, validation and
// test splits to the output directory.
func Preprocess(p PreprocessParameters) error {
	cfg, err := LoadConfig(p.ConfigFile)
	if err != nil {
		return err
	}
	preprocessor, err := preprocess.New(cfg)
	if err != nil {
		return err
	}

	var inputs [3]*frame.Table
	for i, file := range []string{p.TrainFile, p.ValFile, p.TestFile} {
		if inputs[i], err = loadListings(file); err != nil {
			return err
		}
	}

	splits, err := preprocessor.Run(inputs[0], inputs[1], inputs[2], rand.NewSource(p.RndSeed))
	if err != nil {
		return err
	}

	for _, output := range []struct {
		name  string
		table *frame.Table
	}{
		{TrainOutput, splits.Train},
		{ValOutput, splits.Val},
		{TestOutput, splits.Test},
	} {
		path := filepath.Join(p.OutputDir, output.name)
		if err := io.SaveTable(output.table, path); err != nil {
			return fmt.Errorf("error saving %s: %w", path, err)
		}
		log.Info().Str("File", path).Int("Rows", output.table.Rows()).Msg("Wrote encoded data")
	}

	if p.StateFile != "" {
		state, err := preprocessor.State()
		if err != nil {
			return err
		}
		if err := io.SaveStateFile(state, p.StateFile); err != nil {
			return fmt.Errorf("error saving state to %s: %w", p.StateFile, err)
		}
		log.Info().Str("File", p.StateFile).Msg("Saved fitted encoders")
	}
	return nil
}

// Encode transforms a listings file with previously fitted encoders. No outlier filtering is
// applied.
func Encode(stateFile, inputFile, outputFile string, rndSeed uint64) error {
	state, err := io.LoadStateFile(stateFile)
	if err != nil {
		return fmt.Errorf("error loading state from file %s: %w", stateFile, err)
	}
	preprocessor, err := preprocess.Restore(state)
	if err != nil {
		return err
	}

	input, err := loadListings(inputFile)
	if err != nil {
		return err
	}
	encoded, err := preprocessor.Transform(input, rand.NewSource(rndSeed))
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", inputFile, err)
	}
	if err := io.SaveTable(encoded, outputFile); err != nil {
		return fmt.Errorf("error saving %s: %w", outputFile, err)
	}
	log.Info().Str("File", outputFile).Int("Rows", encoded.Rows()).Msg("Wrote encoded data")
	return nil
}

func loadListings(path string) (*frame.Table, error) {
	table, dataErrors, err := io.LoadListings(path)
	if err != nil {
		return nil, fmt.Errorf("error loading data from %s: %w", path, err)
	}
	printDataErrors(dataErrors)
	log.Info().Str("File", path).Int("Rows", table.Rows()).Msg("Loaded listings")
	return table, nil
}
