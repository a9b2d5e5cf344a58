package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIsValid(t *testing.T) {
	p, err := NewStaticProvider(Sample())
	require.NoError(t, err)
	assert.Len(t, p.Version(), 12)

	ds, err := p.Dataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Adoption, 6)
	assert.Len(t, ds.Revenue, 6)
	assert.Len(t, ds.Performance, 6)
	assert.Len(t, ds.TaskTypes, 4)
	assert.Len(t, ds.Summary, 4)
	assert.NoError(t, CheckShares(ds.TaskTypes))
}

func TestDatasetReturnsSameDataEveryCall(t *testing.T) {
	p := MustSample()
	first, err := p.Dataset(context.Background())
	require.NoError(t, err)
	first.Adoption[0].ActiveAgents = -1

	second, err := p.Dataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1250, second.Adoption[0].ActiveAgents)
	assert.Equal(t, Sample(), second)
}

func TestMissingPeriodIsMalformed(t *testing.T) {
	ds := Sample()
	ds.Revenue[3].Period = ""

	_, err := NewStaticProvider(ds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRow))

	var malformed *MalformedRowError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "revenue", malformed.Series)
	assert.Equal(t, 3, malformed.Row)
	assert.Equal(t, "period", malformed.Field)
	assert.Contains(t, err.Error(), "revenue[3]")
}

func TestEmptySeriesIsMalformed(t *testing.T) {
	ds := Sample()
	ds.Performance = nil

	err := Validate(ds)
	var malformed *MalformedRowError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "performance", malformed.Series)
	assert.Equal(t, -1, malformed.Row)
}

func TestShareOutOfRangeIsMalformed(t *testing.T) {
	ds := Sample()
	ds.TaskTypes[1].Share = 140

	err := Validate(ds)
	var malformed *MalformedRowError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "taskTypes", malformed.Series)
	assert.Equal(t, "share", malformed.Field)
}

func TestCheckSharesReportsDrift(t *testing.T) {
	shares := []TaskTypeShare{{Category: "a", Share: 60, ColorToken: "x"}, {Category: "b", Share: 30, ColorToken: "y"}}
	err := CheckShares(shares)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))

	shares[1].Share = 40.4
	assert.NoError(t, CheckShares(shares))
}

func TestRowValueLookup(t *testing.T) {
	p := PerformancePoint{Period: "Jun", SuccessRate: 96.8, AvgResponseTime: 0.3, TasksCompleted: 428000}
	v, ok := p.Value(KeyTasksCompleted)
	assert.True(t, ok)
	assert.Equal(t, 428000.0, v)

	_, ok = p.Value(KeyTotalRevenue)
	assert.False(t, ok)

	rows := Rows(Sample().Adoption)
	assert.Len(t, rows, 6)
	assert.Equal(t, "Jan", rows[0].Label())
}
