package io

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"carprep/pkg/encoding"
	"carprep/pkg/preprocess"
)

func init() {
	gob.Register(&encoding.FittedCondition{})
	gob.Register(&encoding.FittedCylinders{})
	gob.Register(&encoding.FittedCategorical{})
	gob.Register(&encoding.FittedManufacturer{})
	gob.Register(&encoding.FittedState{})
	gob.Register(&encoding.FittedYear{})
}

func SaveState(state *preprocess.State, writer io.Writer) error {
	encoder := gob.NewEncoder(writer)
	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("error encoding preprocessor state: %w", err)
	}
	return nil
}

func LoadState(input io.Reader) (*preprocess.State, error) {
	decoder := gob.NewDecoder(input)
	state := preprocess.State{}
	err := decoder.Decode(&state)
	if err != nil {
		return nil, fmt.Errorf("error decoding preprocessor state: %w", err)
	}
	return &state, nil
}

// SaveStateFile writes the state of a fitted preprocessor to path.
func SaveStateFile(state *preprocess.State, path string) error {
	outputFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating state file: %w", err)
	}
	if err := SaveState(state, outputFile); err != nil {
		outputFile.Close()
		return err
	}
	return outputFile.Close()
}

func LoadStateFile(path string) (*preprocess.State, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening state file: %w", err)
	}
	defer inputFile.Close()
	return LoadState(inputFile)
}
