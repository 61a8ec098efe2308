package risk

import (
	"math"
	"testing"
	"time"

	"glyco/defs"
	"glyco/pkg/units"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RiskTestSuite struct {
	suite.Suite
}

func TestRiskTestSuite(t *testing.T) {
	suite.Run(t, new(RiskTestSuite))
}

func readings(mgdl ...float64) []defs.GlucoseReading {
	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	trs := make([]defs.GlucoseReading, len(mgdl))
	for i, v := range mgdl {
		trs[i] = defs.GlucoseReading{Time: start.Add(time.Duration(i*5) * time.Minute), Mmol: units.MgdlToMmol(v)}
	}
	return trs
}

func (suite *RiskTestSuite) TestEmptyInputIsNull() {
	assert.Equal(suite.T(), Stats{}, Compute(nil))
	assert.Nil(suite.T(), Compute(nil).LBGI)
	assert.Nil(suite.T(), CoefficientOfVariation(nil))
	assert.Nil(suite.T(), EstimatedHbA1c(nil))
	assert.Nil(suite.T(), EstimatedHbA1cIn(nil, units.MmolMol))
}

func (suite *RiskTestSuite) TestTransformSymmetryPoint() {
	// The risk space is centred near 112.5 mg/dL.
	assert.InDelta(suite.T(), 0, Transform(112.5), 0.01)
	assert.Less(suite.T(), Transform(70), 0.0)
	assert.Greater(suite.T(), Transform(180), 0.0)
}

func (suite *RiskTestSuite) TestRiskComponents() {
	rl, rh := Risk(50)
	assert.Greater(suite.T(), rl, 0.0)
	assert.Equal(suite.T(), 0.0, rh)

	rl, rh = Risk(300)
	assert.Equal(suite.T(), 0.0, rl)
	assert.Greater(suite.T(), rh, 0.0)

	f := Transform(300)
	assert.InDelta(suite.T(), 10*f*f, rh, 1e-12)
}

func (suite *RiskTestSuite) TestIndices() {
	trs := readings(60, 100, 200, 250)
	s := Compute(trs)
	require.NotNil(suite.T(), s.LBGI)
	require.NotNil(suite.T(), s.HBGI)
	require.NotNil(suite.T(), s.BGRI)
	require.NotNil(suite.T(), s.JIndex)

	var wantLow, wantHigh float64
	for _, v := range []float64{60, 100, 200, 250} {
		rl, rh := Risk(v)
		wantLow += rl
		wantHigh += rh
	}
	assert.InDelta(suite.T(), wantLow/4, *s.LBGI, 1e-9)
	assert.InDelta(suite.T(), wantHigh/4, *s.HBGI, 1e-9)
	assert.InDelta(suite.T(), *s.LBGI+*s.HBGI, *s.BGRI, 1e-12)

	mean := 152.5
	sd := math.Sqrt((92.5*92.5 + 52.5*52.5 + 47.5*47.5 + 97.5*97.5) / 4)
	assert.InDelta(suite.T(), 0.001*(mean+sd)*(mean+sd), *s.JIndex, 1e-6)
}

func (suite *RiskTestSuite) TestConstantInput() {
	trs := readings(120, 120, 120)

	cv := CoefficientOfVariation(trs)
	require.NotNil(suite.T(), cv)
	assert.InDelta(suite.T(), 0.0, *cv, 1e-9)

	s := Compute(trs)
	require.NotNil(suite.T(), s.JIndex)
	assert.InDelta(suite.T(), 0.001*120*120, *s.JIndex, 1e-6)
}

func (suite *RiskTestSuite) TestCoefficientOfVariation() {
	cv := CoefficientOfVariation(readings(100, 200))
	require.NotNil(suite.T(), cv)
	assert.InDelta(suite.T(), 100*50.0/150, *cv, 1e-9)

	zero := []defs.GlucoseReading{{Mmol: 0}, {Mmol: 0}}
	assert.Nil(suite.T(), CoefficientOfVariation(zero), "zero mean guarded")
}

func (suite *RiskTestSuite) TestEstimatedHbA1c() {
	a1c := EstimatedHbA1c(readings(154.2, 154.2))
	require.NotNil(suite.T(), a1c)
	assert.InDelta(suite.T(), 7.0, *a1c, 1e-6)

	ifcc := EstimatedHbA1cIn(readings(154.2), units.MmolMol)
	require.NotNil(suite.T(), ifcc)
	assert.InDelta(suite.T(), (7.0-2.15)*10.929, *ifcc, 1e-5)

	pct := EstimatedHbA1cIn(readings(154.2), units.Percent)
	require.NotNil(suite.T(), pct)
	assert.InDelta(suite.T(), 7.0, *pct, 1e-6)
}
