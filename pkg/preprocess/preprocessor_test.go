package preprocess

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"carprep/pkg/config"
	"carprep/pkg/encoding"
	"carprep/pkg/frame"
)

var expectedColumns = []string{
	"price", "odometer",
	"condition_numerical", "condition_te",
	"cylinders_numerical", "cylinders_te",
	"drive_label", "drive_te",
	"fuel_label", "fuel_te",
	"is_premium_manufacturer", "is_potentially_overpriced_manufacturer", "manufacturer_label", "manufacturer_te",
	"paint_color_label", "paint_color_te",
	"is_top_10_state", "state_label", "state_te",
	"transmission_label", "transmission_te",
	"type_label", "type_te",
	"year", "is_1987_or_later", "is_1975_or_later",
}

// noiselessConfig is the default configuration with target encoding noise disabled
func noiselessConfig() config.Preprocessor {
	cfg := config.Default()
	for _, te := range []*config.TargetEncoder{
		cfg.Condition.TargetEncoder, cfg.Cylinders.TargetEncoder, cfg.Drive.TargetEncoder,
		cfg.Fuel.TargetEncoder, cfg.Manufacturer.TargetEncoder, cfg.PaintColor.TargetEncoder,
		cfg.State.TargetEncoder, cfg.Transmission.TargetEncoder, cfg.Type.TargetEncoder,
	} {
		te.NoiseLevel = 0
	}
	return cfg
}

func pick(values []string, i int) string {
	return values[i%len(values)]
}

// listings builds a raw table of n rows with the given prices cycling through the rows.
func listings(t *testing.T, n int, prices ...float64) *frame.Table {
	price := make([]float64, n)
	odometer := make([]float64, n)
	year := make([]float64, n)
	raw := map[string][]string{}
	categories := map[string][]string{
		encoding.ConditionColumn:    {"excellent", "good", "like new", "fair"},
		encoding.CylindersColumn:    {"4 cylinders", "6 cylinders", "8 cylinders"},
		encoding.DriveColumn:        {"fwd", "rwd", "4wd"},
		encoding.FuelColumn:         {"gas", "diesel"},
		encoding.ManufacturerColumn: {"ford", "toyota", "tesla"},
		encoding.PaintColorColumn:   {"white", "black"},
		encoding.StateColumn:        {"ca", "tx", "ny"},
		encoding.TransmissionColumn: {"automatic", "manual"},
		encoding.TypeColumn:         {"sedan", "truck", "SUV"},
	}
	for i := 0; i < n; i++ {
		price[i] = prices[i%len(prices)]
		odometer[i] = float64(10000 * (i + 1))
		year[i] = float64(1970 + i%40)
		for name, values := range categories {
			raw[name] = append(raw[name], pick(values, i))
		}
	}

	columns := []*frame.Column{
		frame.NewFloatColumn(PriceColumn, price),
		frame.NewFloatColumn(OdometerColumn, odometer),
	}
	for _, name := range []string{
		encoding.ConditionColumn, encoding.CylindersColumn, encoding.DriveColumn, encoding.FuelColumn,
		encoding.ManufacturerColumn, encoding.PaintColorColumn, encoding.StateColumn,
		encoding.TransmissionColumn, encoding.TypeColumn,
	} {
		columns = append(columns, frame.NewStringColumn(name, raw[name]))
	}
	columns = append(columns, frame.NewFloatColumn(encoding.YearColumn, year))

	table, err := frame.NewTable(columns...)
	require.NoError(t, err)
	return table
}

func newPreprocessor(t *testing.T, cfg config.Preprocessor) *Preprocessor {
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func prices(t *testing.T, table *frame.Table) []float64 {
	c, err := table.Column(PriceColumn)
	require.NoError(t, err)
	values, err := c.Floats()
	require.NoError(t, err)
	return values
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Drive.TargetEncoder = nil

	_, err := New(cfg)
	var configErr *config.ConfigurationError
	require.True(t, errors.As(err, &configErr))
}

func TestRun_SchemaStable(t *testing.T) {
	p := newPreprocessor(t, config.Default())
	train := listings(t, 60, 5000, 12000, 25000)
	val := listings(t, 20, 7000, 30000)
	test := listings(t, 10, 9000)

	splits, err := p.Run(train, val, test, rand.NewSource(1))
	require.NoError(t, err)

	require.Equal(t, expectedColumns, splits.Train.Names())
	require.Equal(t, expectedColumns, splits.Val.Names())
	require.Equal(t, expectedColumns, splits.Test.Names())
	require.Equal(t, 60, splits.Train.Rows())
	require.Equal(t, 20, splits.Val.Rows())
	require.Equal(t, 10, splits.Test.Rows())
}

func TestRun_DisabledEncodersShrinkSchema(t *testing.T) {
	cfg := config.Default()
	cfg.Drive = config.CategoricalEncoder{}
	cfg.Year = config.YearEncoder{}
	cfg.State.UseTopTierFlag = false
	p := newPreprocessor(t, cfg)

	train := listings(t, 30, 5000, 15000)
	splits, err := p.Run(train, train, train, rand.NewSource(1))
	require.NoError(t, err)

	names := splits.Train.Names()
	require.NotContains(t, names, "drive_label")
	require.NotContains(t, names, "drive_te")
	require.NotContains(t, names, "is_top_10_state")
	require.NotContains(t, names, "is_1987_or_later")
	require.Contains(t, names, "year")
	require.Equal(t, splits.Train.Names(), splits.Test.Names())
}

func TestFilterOutliers_Bounds(t *testing.T) {
	p := newPreprocessor(t, config.Default())
	table := listings(t, 6, 1000, 1000.01, 39999.99, 40000, math.NaN(), 500000)

	filtered, err := p.FilterOutliers(table)
	require.NoError(t, err)
	require.Equal(t, []float64{1000.01, 39999.99}, prices(t, filtered))
}

func TestRun_OutlierFilteringPerSplit(t *testing.T) {
	// Five prices against category cycles of two, three and four rows, so every category
	// keeps some rows after the 500 rows are filtered.
	train := listings(t, 30, 500, 5000, 15000, 20000, 25000)
	val := listings(t, 30, 500, 5000, 15000, 20000, 25000)
	test := listings(t, 30, 500, 5000, 15000, 20000, 25000)

	p := newPreprocessor(t, config.Default())
	splits, err := p.Run(train, val, test, rand.NewSource(1))
	require.NoError(t, err)
	require.Equal(t, 24, splits.Train.Rows())
	require.Equal(t, 24, splits.Val.Rows())
	require.Equal(t, 30, splits.Test.Rows())

	cfg := config.Default()
	cfg.RemoveOutliersVal = false
	p = newPreprocessor(t, cfg)
	splits, err = p.Run(train, val, test, rand.NewSource(1))
	require.NoError(t, err)
	require.Equal(t, 24, splits.Train.Rows())
	require.Equal(t, 30, splits.Val.Rows())
	require.Equal(t, 30, splits.Test.Rows())
}

func TestRun_FilteredCategoryUnseenInTest(t *testing.T) {
	// Prices cycle with the drive values, so every fwd listing is priced below the lower bound
	// and only the unfiltered test split still holds fwd.
	train := listings(t, 30, 500, 5000, 15000)
	test := listings(t, 30, 500, 5000, 15000)

	cfg := config.Default()
	cfg.RemoveOutliersVal = true
	_, err := newPreprocessor(t, cfg).Run(train, train, test, rand.NewSource(1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "error transforming test data")

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, encoding.DriveColumn, stageErr.Encoder)
	require.Equal(t, StageTransform, stageErr.Stage)

	var unseen *encoding.UnseenCategoryError
	require.True(t, errors.As(err, &unseen))
	require.Equal(t, "fwd", unseen.Value)
}

func TestRun_NoLeakage(t *testing.T) {
	train := listings(t, 60, 5000, 12000, 25000)
	val := listings(t, 20, 7000)
	test := listings(t, 20, 9000)
	// Same rows, very different prices. Fitted statistics must not move.
	otherVal := listings(t, 20, 39000)
	otherTest := listings(t, 20, 1500)

	first, err := newPreprocessor(t, noiselessConfig()).Run(train, val, test, rand.NewSource(1))
	require.NoError(t, err)
	second, err := newPreprocessor(t, noiselessConfig()).Run(train, otherVal, otherTest, rand.NewSource(1))
	require.NoError(t, err)

	for _, name := range []string{"manufacturer_te", "state_te", "condition_te", "drive_te"} {
		a, err := first.Train.Column(name)
		require.NoError(t, err)
		b, err := second.Train.Column(name)
		require.NoError(t, err)
		require.Equal(t, a, b, name)

		a, err = first.Test.Column(name)
		require.NoError(t, err)
		b, err = second.Test.Column(name)
		require.NoError(t, err)
		require.Equal(t, a, b, name)
	}
}

func TestRun_ReproducibleWithSeed(t *testing.T) {
	train := listings(t, 40, 5000, 12000)

	first, err := newPreprocessor(t, config.Default()).Run(train, train, train, rand.NewSource(7))
	require.NoError(t, err)
	second, err := newPreprocessor(t, config.Default()).Run(train, train, train, rand.NewSource(7))
	require.NoError(t, err)
	require.Equal(t, first.Train.Columns(), second.Train.Columns())
	require.Equal(t, first.Test.Columns(), second.Test.Columns())
}

func TestRun_MissingColumn(t *testing.T) {
	train := listings(t, 10, 5000)
	withoutState, err := train.Select(PriceColumn, OdometerColumn, encoding.ConditionColumn)
	require.NoError(t, err)

	_, err = newPreprocessor(t, config.Default()).Run(withoutState, train, train, nil)
	var schemaErr *frame.SchemaError
	require.True(t, errors.As(err, &schemaErr))
}

func TestRun_MissingColumnInTestFailsBeforeFit(t *testing.T) {
	train := listings(t, 30, 5000, 15000)
	names := train.Names()
	var kept []string
	for _, name := range names {
		if name != encoding.StateColumn {
			kept = append(kept, name)
		}
	}
	withoutState, err := train.Select(kept...)
	require.NoError(t, err)

	for _, tc := range []struct {
		name      string
		val, test *frame.Table
	}{
		{"validation", withoutState, train},
		{"test", train, withoutState},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := newPreprocessor(t, config.Default())
			_, err := p.Run(train, tc.val, tc.test, rand.NewSource(1))
			var schemaErr *frame.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			require.Contains(t, err.Error(), "error checking "+tc.name+" data")
			require.False(t, p.Fitted())
		})
	}
}

func TestCheckSchema(t *testing.T) {
	p := newPreprocessor(t, config.Default())
	table := listings(t, 5, 5000)
	require.NoError(t, p.CheckSchema(table))

	withoutPrice, err := table.Select(p.Columns()...)
	require.NoError(t, err)
	var schemaErr *frame.SchemaError
	require.True(t, errors.As(p.CheckSchema(withoutPrice), &schemaErr))
}

func TestTransform_BeforeFit(t *testing.T) {
	p := newPreprocessor(t, config.Default())
	require.False(t, p.Fitted())

	_, err := p.Transform(listings(t, 5, 5000), nil)
	require.True(t, errors.Is(err, ErrNotFitted))

	_, err = p.State()
	require.True(t, errors.Is(err, ErrNotFitted))
}

func TestTransform_UnseenLabel(t *testing.T) {
	p := newPreprocessor(t, config.Default())
	train := listings(t, 30, 5000, 15000)
	require.NoError(t, p.Fit(train))

	test := listings(t, 30, 5000)
	drive, err := test.Column(encoding.DriveColumn)
	require.NoError(t, err)
	values, err := drive.Strings()
	require.NoError(t, err)
	values[0] = "awd"

	_, err = p.Transform(test, nil)
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, encoding.DriveColumn, stageErr.Encoder)
	require.Equal(t, StageTransform, stageErr.Stage)

	var unseen *encoding.UnseenCategoryError
	require.True(t, errors.As(err, &unseen))
	require.Equal(t, "awd", unseen.Value)
}

func TestFit_EmptyTrain(t *testing.T) {
	p := newPreprocessor(t, config.Default())
	train := listings(t, 5, 100)
	filtered, err := p.FilterOutliers(train)
	require.NoError(t, err)
	require.Equal(t, 0, filtered.Rows())

	err = p.Fit(filtered)
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	require.Equal(t, StageFit, stageErr.Stage)
	require.True(t, errors.Is(err, encoding.ErrEmptyInput))
	require.False(t, p.Fitted())
}

func TestFit_LogsEncodersInOrder(t *testing.T) {
	var buf bytes.Buffer
	logger, level := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})

	p := newPreprocessor(t, config.Default())
	require.NoError(t, p.Fit(listings(t, 30, 5000, 15000)))

	var fitted []string
	decoder := json.NewDecoder(&buf)
	for decoder.More() {
		var line struct {
			Message string `json:"message"`
			Encoder string `json:"Encoder"`
		}
		require.NoError(t, decoder.Decode(&line))
		if line.Message == "Fitted encoder" {
			fitted = append(fitted, line.Encoder)
		}
	}
	require.Equal(t, p.Columns(), fitted)
}

func TestStateRestore(t *testing.T) {
	train := listings(t, 40, 5000, 12000, 25000)
	test := listings(t, 15, 9000)

	p := newPreprocessor(t, noiselessConfig())
	require.NoError(t, p.Fit(train))
	expected, err := p.Transform(test, nil)
	require.NoError(t, err)

	state, err := p.State()
	require.NoError(t, err)
	restored, err := Restore(state)
	require.NoError(t, err)
	require.True(t, restored.Fitted())

	actual, err := restored.Transform(test, nil)
	require.NoError(t, err)
	require.Equal(t, expected.Columns(), actual.Columns())

	state.Fitted = state.Fitted[1:]
	_, err = Restore(state)
	require.Error(t, err)
}
