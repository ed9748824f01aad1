package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"carprep/pkg"

	"github.com/spf13/cobra"
)

func PreprocessCommand() *cobra.Command {
	var params pkg.PreprocessParameters

	var cmd = &cobra.Command{
		Use:   "preprocess --train trainFile --val valFile --test testFile -o outputDir",
		Short: "Fits the encoders on the training listings and writes the encoded train, validation and test data",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Preprocess(params)
		},
	}

	cmd.Flags().StringVarP(&params.TrainFile, "train", "", "", "name of training listings file")
	cmd.Flags().StringVarP(&params.ValFile, "val", "", "", "name of validation listings file")
	cmd.Flags().StringVarP(&params.TestFile, "test", "", "", "name of test listings file")
	cmd.Flags().StringVarP(&params.OutputDir, "output-dir", "o", ".", "directory receiving train.csv, val.csv and test.csv")
	cmd.Flags().StringVarP(&params.ConfigFile, "config", "c", "", "YAML configuration file (optional, uses the defaults if not present)")
	cmd.Flags().StringVarP(&params.StateFile, "state-file", "s", "", "file to save the fitted encoders to (optional)")
	cmd.Flags().Uint64VarP(&params.RndSeed, "random-seed", "x", 42, "random seed for the target encoding noise")

	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("val")
	_ = cmd.MarkFlagRequired("test")

	return cmd
}

func EncodeCommand() *cobra.Command {
	var stateFile string
	var inputFile string
	var outputFile string
	var rndSeed uint64

	var cmd = &cobra.Command{
		Use:   "encode -s stateFile -i inputFile -o outputFile",
		Short: "Encodes listings with encoders saved by a previous preprocess run",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Encode(stateFile, inputFile, outputFile, rndSeed)
		},
	}

	cmd.Flags().StringVarP(&stateFile, "state-file", "s", "", "name of the saved encoders file")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of listings file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of output file")
	cmd.Flags().Uint64VarP(&rndSeed, "random-seed", "x", 42, "random seed for the target encoding noise")

	_ = cmd.MarkFlagRequired("state-file")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func EvaluateCommand() *cobra.Command {
	var inputFile string
	var trueColumn string
	var predictedColumn string

	var cmd = &cobra.Command{
		Use:   "evaluate -i predictionsFile [-t trueColumn] [-p predictedColumn]",
		Short: "Reports the RMSE and MAE of price predictions",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := pkg.Evaluate(inputFile, trueColumn, predictedColumn)
			return err
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "name of predictions file")
	cmd.Flags().StringVarP(&trueColumn, "true-column", "t", "price", "column holding the true prices")
	cmd.Flags().StringVarP(&predictedColumn, "predicted-column", "p", "prediction", "column holding the predicted prices")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func SplitCommand() *cobra.Command {
	var params pkg.SplitParameters

	var cmd = &cobra.Command{
		Use:   "split -i inputFile -o outputDir",
		Short: "Splits a raw listings file into train, validation and test files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.Split(params)
		},
	}

	cmd.Flags().StringVarP(&params.InputFile, "input", "i", "", "name of listings file")
	cmd.Flags().StringVarP(&params.OutputDir, "output-dir", "o", ".", "directory receiving train.csv, val.csv and test.csv")
	cmd.Flags().Float64VarP(&params.ValFraction, "val-fraction", "", 0.15, "fraction of rows for validation")
	cmd.Flags().Float64VarP(&params.TestFraction, "test-fraction", "", 0.15, "fraction of rows for test")
	cmd.Flags().BoolVarP(&params.Shuffle, "shuffle", "", true, "shuffle rows before splitting")
	cmd.Flags().Uint64VarP(&params.RndSeed, "random-seed", "x", 42, "random seed for shuffling")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func ConfigCommand() *cobra.Command {
	var outputFile string
	var searchSpace bool

	var cmd = &cobra.Command{
		Use:   "config [-o outputFile] [--search-space]",
		Short: "Writes the default configuration or the hyperparameter search space as YAML",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pkg.WriteConfig(outputFile, searchSpace)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "name of output file (optional, uses stdout if not present)")
	cmd.Flags().BoolVarP(&searchSpace, "search-space", "", false, "write the search space instead of the default configuration")

	return cmd
}

var logLevel string
var logFormat string

func main() {

	Main := &cobra.Command{Use: "carprep", PersistentPreRun: setupLogging}

	Main.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	Main.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	Main.AddCommand(PreprocessCommand())
	Main.AddCommand(EncodeCommand())
	Main.AddCommand(EvaluateCommand())
	Main.AddCommand(SplitCommand())
	Main.AddCommand(ConfigCommand())

	if err := Main.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		panic("Invalid logging level specified")
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		panic("Invalid log format specified")

	}

}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
