package agp

import (
	"math/rand"
	"testing"
	"time"

	"glyco/defs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AGPTestSuite struct {
	suite.Suite
}

func TestAGPTestSuite(t *testing.T) {
	suite.Run(t, new(AGPTestSuite))
}

func (suite *AGPTestSuite) TestEmptyInputHasAllSlots() {
	profile := Build(nil, time.UTC)
	require.Len(suite.T(), profile, 288)

	for i, slot := range profile {
		assert.Equal(suite.T(), SlotLabel(i), slot.TimeSlot)
		assert.Equal(suite.T(), TimeSlotStats{TimeSlot: slot.TimeSlot}, slot)
	}
	assert.Equal(suite.T(), "00:00", profile[0].TimeSlot)
	assert.Equal(suite.T(), "00:05", profile[1].TimeSlot)
	assert.Equal(suite.T(), "12:00", profile[144].TimeSlot)
	assert.Equal(suite.T(), "23:55", profile[287].TimeSlot)
}

func (suite *AGPTestSuite) TestSlotsAreLexicographicallyOrdered() {
	profile := Build(genReadings(500), time.UTC)
	for i := 1; i < len(profile); i++ {
		assert.Less(suite.T(), profile[i-1].TimeSlot, profile[i].TimeSlot)
	}
}

func (suite *AGPTestSuite) TestTenDaysSameSlot() {
	trs := make([]defs.GlucoseReading, 0, 10)
	for i := 0; i < 10; i++ {
		// Shuffle the day order so the builder cannot rely on input order.
		day := (i * 7) % 10
		trs = append(trs, defs.GlucoseReading{
			Time: time.Date(2024, time.March, 1+day, 14, 30, 0, 0, time.UTC),
			Mmol: float64(100 + 10*day),
		})
	}

	profile := Build(trs, time.UTC)
	slot := profile[SlotIndex(trs[0].Time, time.UTC)]

	assert.Equal(suite.T(), "14:30", slot.TimeSlot)
	assert.Equal(suite.T(), 10, slot.Count)
	assert.Equal(suite.T(), 100.0, slot.Lowest)
	assert.Equal(suite.T(), 190.0, slot.Highest)
	assert.InDelta(suite.T(), 145.0, slot.P50, 1e-9)
	assert.InDelta(suite.T(), 122.5, slot.P25, 1e-9)
	assert.InDelta(suite.T(), 167.5, slot.P75, 1e-9)

	total := 0
	for _, s := range profile {
		total += s.Count
	}
	assert.Equal(suite.T(), 10, total)
}

func (suite *AGPTestSuite) TestMinuteFlooring() {
	trs := []defs.GlucoseReading{
		{Time: time.Date(2024, time.March, 1, 7, 40, 0, 0, time.UTC), Mmol: 5},
		{Time: time.Date(2024, time.March, 2, 7, 44, 59, 0, time.UTC), Mmol: 7},
		{Time: time.Date(2024, time.March, 3, 7, 45, 0, 0, time.UTC), Mmol: 9},
	}
	profile := Build(trs, time.UTC)

	assert.Equal(suite.T(), 2, profile[SlotIndex(trs[0].Time, time.UTC)].Count)
	assert.Equal(suite.T(), "07:40", profile[SlotIndex(trs[1].Time, time.UTC)].TimeSlot)
	assert.Equal(suite.T(), "07:45", profile[SlotIndex(trs[2].Time, time.UTC)].TimeSlot)
}

func (suite *AGPTestSuite) TestSingleReadingSlot() {
	trs := []defs.GlucoseReading{{Time: time.Date(2024, time.March, 1, 0, 3, 0, 0, time.UTC), Mmol: 6.1}}
	slot := Build(trs, time.UTC)[0]

	assert.Equal(suite.T(), 1, slot.Count)
	for _, v := range []float64{slot.Lowest, slot.P10, slot.P25, slot.P50, slot.P75, slot.P90, slot.Highest} {
		assert.Equal(suite.T(), 6.1, v)
	}
}

func (suite *AGPTestSuite) TestUsesLocation() {
	loc := time.FixedZone("UTC+2", 2*3600)
	trs := []defs.GlucoseReading{{Time: time.Date(2024, time.March, 1, 22, 0, 0, 0, time.UTC), Mmol: 6}}

	profile := Build(trs, loc)
	assert.Equal(suite.T(), 1, profile[0].Count, "22:00 UTC is 00:00 at UTC+2")
}

func (suite *AGPTestSuite) TestPercentileOrdering() {
	for _, slot := range Build(genReadings(5000), time.UTC) {
		if slot.Count == 0 {
			continue
		}
		assert.LessOrEqual(suite.T(), slot.Lowest, slot.P10)
		assert.LessOrEqual(suite.T(), slot.P10, slot.P25)
		assert.LessOrEqual(suite.T(), slot.P25, slot.P50)
		assert.LessOrEqual(suite.T(), slot.P50, slot.P75)
		assert.LessOrEqual(suite.T(), slot.P75, slot.P90)
		assert.LessOrEqual(suite.T(), slot.P90, slot.Highest)
	}
}

func (suite *AGPTestSuite) TestInputNotReordered() {
	trs := genReadings(50)
	before := append([]defs.GlucoseReading(nil), trs...)
	Build(trs, time.UTC)
	assert.Equal(suite.T(), before, trs)
}

// genReadings returns n readings at random times over two weeks.
func genReadings(n int) []defs.GlucoseReading {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	trs := make([]defs.GlucoseReading, n)
	for i := range trs {
		trs[i] = defs.GlucoseReading{
			Time: start.Add(time.Duration(rand.Int63n(int64(14 * 24 * time.Hour)))),
			Mmol: 2 + rand.Float64()*18,
		}
	}
	return trs
}
