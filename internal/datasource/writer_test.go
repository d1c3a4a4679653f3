package datasource

import (
	"path/filepath"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	tmpDir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupTest() {
	suite.tmpDir = suite.T().TempDir()
}

func writerBars() []types.Bar {
	bars := make([]types.Bar, 5)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = types.Bar{Date: day0.AddDate(0, 0, i), Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}

	return bars
}

func (suite *DuckDBWriterTestSuite) TestNewDuckDBWriter() {
	path := filepath.Join(suite.tmpDir, "bars.parquet")
	writer := NewDuckDBWriter(path, nil)

	duckWriter, ok := writer.(*DuckDBWriter)
	suite.Require().True(ok)
	suite.Equal(path, writer.OutputPath())
	suite.Nil(duckWriter.db)
	suite.Nil(duckWriter.tx)
	suite.Nil(duckWriter.stmt)
}

func (suite *DuckDBWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tmpDir, "bars.parquet"), nil)

	err := writer.Write("SPY", writerBars()[0])
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeWriteFailed, errors.GetCode(err))

	_, err = writer.Finalize()
	suite.Require().Error(err)
	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestRoundTrip() {
	for _, name := range []string{"bars.parquet", "bars.csv"} {
		suite.Run(name, func() {
			path := filepath.Join(suite.tmpDir, name)
			writer := NewDuckDBWriter(path, nil)
			suite.Require().NoError(writer.Initialize())

			for _, bar := range writerBars() {
				suite.Require().NoError(writer.Write("SPY", bar))
			}

			out, err := writer.Finalize()
			suite.Require().NoError(err)
			suite.Equal(path, out)
			suite.NoError(writer.Close())

			loader, err := NewDuckDBLoader(":memory:", nil)
			suite.Require().NoError(err)
			defer loader.Close()

			suite.Require().NoError(loader.Initialize(path))

			bars, err := loader.Load(Query{Symbol: optional.Some("SPY")})
			suite.Require().NoError(err)
			suite.Require().Len(bars, 5)

			for i, bar := range bars {
				suite.Equal(writerBars()[i].Close, bar.Close)
				suite.Equal(writerBars()[i].Date, bar.Date)
			}
		})
	}
}

func (suite *DuckDBWriterTestSuite) TestCloseRollsBackUnfinished() {
	path := filepath.Join(suite.tmpDir, "unfinished.parquet")
	writer := NewDuckDBWriter(path, nil)
	suite.Require().NoError(writer.Initialize())
	suite.Require().NoError(writer.Write("SPY", writerBars()[0]))

	suite.NoError(writer.Close())
	suite.NoFileExists(path)
}

