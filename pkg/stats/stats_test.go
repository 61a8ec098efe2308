package stats

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StatsTestSuite struct {
	suite.Suite
}

func TestStatsTestSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}

func (suite *StatsTestSuite) TestSummaryStatistics() {
	values := make([]float64, 100)
	for i := range values {
		values[i] = 6
	}
	ss := Summary(values)

	assert.Equal(suite.T(), float64(6), ss.Average, "averages do not equal")
	assert.Equal(suite.T(), float64(0), ss.Deviation, "deviations do not equal")
	assert.Equal(suite.T(), float64(6), ss.Min)
	assert.Equal(suite.T(), float64(6), ss.Max)
	assert.Equal(suite.T(), 100, ss.Count)
}

func (suite *StatsTestSuite) TestSummaryPopulationDeviation() {
	ss := Summary([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(suite.T(), 5.0, ss.Average)
	assert.Equal(suite.T(), 2.0, ss.Deviation)
	assert.Equal(suite.T(), 2.0, ss.Min)
	assert.Equal(suite.T(), 9.0, ss.Max)
}

func (suite *StatsTestSuite) TestSummaryEmpty() {
	assert.Equal(suite.T(), SummaryStatistics{}, Summary(nil))
}

func (suite *StatsTestSuite) TestPercentage() {
	assert.Equal(suite.T(), 0.0, Percentage(5, 0, 1), "zero total must not divide")
	assert.Equal(suite.T(), 33.3, Percentage(1, 3, 1))
	assert.Equal(suite.T(), 33.33, Percentage(1, 3, 2))
	assert.Equal(suite.T(), 67.0, Percentage(2, 3, 0))
	assert.Equal(suite.T(), 100.0, Percentage(7, 7, 1))
}

func (suite *StatsTestSuite) TestPercentileInterpolation() {
	sorted := []float64{100, 110, 120, 130, 140, 150, 160, 170, 180, 190}

	assert.Equal(suite.T(), 100.0, Percentile(sorted, 0))
	assert.InDelta(suite.T(), 109.0, Percentile(sorted, 10), 1e-9)
	assert.InDelta(suite.T(), 122.5, Percentile(sorted, 25), 1e-9)
	assert.InDelta(suite.T(), 145.0, Percentile(sorted, 50), 1e-9)
	assert.InDelta(suite.T(), 167.5, Percentile(sorted, 75), 1e-9)
	assert.InDelta(suite.T(), 181.0, Percentile(sorted, 90), 1e-9)
	assert.Equal(suite.T(), 190.0, Percentile(sorted, 100))
}

func (suite *StatsTestSuite) TestPercentileDegenerate() {
	assert.Equal(suite.T(), 0.0, Percentile(nil, 50))
	for _, p := range []float64{10, 25, 50, 75, 90} {
		assert.Equal(suite.T(), 7.2, Percentile([]float64{7.2}, p))
	}
}

func (suite *StatsTestSuite) TestPercentileMonotonic() {
	values := make([]float64, 57)
	for i := range values {
		values[i] = 2 + rand.Float64()*18
	}
	sort.Float64s(values)

	prev := Percentile(values, 0)
	for p := 5.0; p <= 100; p += 5 {
		cur := Percentile(values, p)
		assert.GreaterOrEqual(suite.T(), cur, prev, "percentile %v", p)
		prev = cur
	}
}
