package pkg

import (
	"os"

	"github.com/rs/zerolog/log"

	"carprep/pkg/config"
	"carprep/pkg/io"
)

func printDataErrors(errors []io.DataError) {
	for _, err := range errors {
		log.Error().Msgf("Error parsing data at line %d: %s", err.Line, err.Error)
	}
}

// WriteConfig writes the default configuration, or the hyperparameter search space, as YAML to
// outputFile. An empty outputFile writes to stdout.
func WriteConfig(outputFile string, searchSpace bool) error {
	writer := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		writer = f
	}

	if searchSpace {
		return config.EncodeSearchSpace(writer)
	}
	return config.Encode(config.Default(), writer)
}
