package analysis

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/san-kum/truss2d/internal/config"
	"github.com/san-kum/truss2d/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams(t *testing.T) {
	assert.Equal(t, []float64{0, 90, 180, 270}, Sweep{From: 0, To: 270, Steps: 4}.Params())
	assert.Equal(t, []float64{5}, Sweep{From: 5, To: 10, Steps: 1}.Params())
	assert.Nil(t, Sweep{Steps: 0}.Params())
}

func TestParallelForCoversRange(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 16} {
		var hits [100]int32
		ParallelFor(len(hits), 7, workers, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			require.EqualValuesf(t, 1, h, "workers=%d index %d", workers, i)
		}
	}
}

func TestScaleSweepIsLinear(t *testing.T) {
	tr := config.MustBuild("triangle")
	sw := Sweep{NodeID: 3, Mode: ModeScale, From: 0, To: 2, Steps: 5, Workers: 2}

	res, err := sw.Run(context.Background(), tr, solver.New())
	require.NoError(t, err)
	assert.Empty(t, res.Failures)
	require.Len(t, res.Forces[1], 5)

	for i, p := range res.Params {
		assert.InDelta(t, 500*p, res.Forces[1][i], 1e-3)
		assert.InDelta(t, -500*math.Sqrt2*p, res.Forces[2][i], 1e-3)
	}
	assert.Equal(t, 0.0, tr.Members[0].Force, "input truss must not be modified")
	assert.Equal(t, 1000.0, tr.Node(3).Load.Magnitude)
}

func TestAngleSweepEnvelope(t *testing.T) {
	tr := config.MustBuild("triangle")
	sw := Sweep{NodeID: 3, Mode: ModeAngle, From: 0, To: 360, Steps: 73}

	res, err := sw.Run(context.Background(), tr, solver.New())
	require.NoError(t, err)

	min, max, ok := res.Envelope(2)
	require.True(t, ok)
	assert.Less(t, min, 0.0)
	assert.Greater(t, max, 0.0)

	param, force, ok := res.Critical(2)
	require.True(t, ok)
	assert.InDelta(t, math.Max(-min, max), math.Abs(force), 1e-9)
	assert.GreaterOrEqual(t, param, 0.0)
	assert.Len(t, res.MaxDisplacement, 73)
}

func TestSweepRecordsFailures(t *testing.T) {
	tr := config.MustBuild("unstable")
	sw := Sweep{NodeID: 4, Mode: ModeScale, From: 1, To: 3, Steps: 3}

	res, err := sw.Run(context.Background(), tr, solver.New())
	require.NoError(t, err)
	require.Len(t, res.Failures, 3)
	for i, f := range res.Failures {
		assert.Equal(t, i, f.Index)
		assert.True(t, errors.Is(f.Err, solver.ErrUnstableStructure))
	}
	assert.True(t, math.IsNaN(res.Forces[1][0]))

	_, _, ok := res.Envelope(1)
	assert.False(t, ok)
}

func TestSweepValidation(t *testing.T) {
	tr := config.MustBuild("triangle")
	ctx := context.Background()

	_, err := Sweep{NodeID: 99, Mode: ModeAngle, Steps: 3}.Run(ctx, tr, solver.New())
	assert.ErrorIs(t, err, ErrUnknownNode)

	_, err = Sweep{NodeID: 1, Mode: ModeAngle, Steps: 3}.Run(ctx, tr, solver.New())
	assert.ErrorIs(t, err, ErrNoLoad)

	_, err = Sweep{NodeID: 3, Mode: "twist", Steps: 3}.Run(ctx, tr, solver.New())
	assert.ErrorIs(t, err, ErrInvalidSweep)

	_, err = Sweep{NodeID: 3, Mode: ModeScale}.Run(ctx, tr, solver.New())
	assert.ErrorIs(t, err, ErrInvalidSweep)
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep{NodeID: 3, Mode: ModeAngle, From: 0, To: 90, Steps: 10}.
		Run(ctx, config.MustBuild("triangle"), solver.New())
	assert.ErrorIs(t, err, context.Canceled)
}
