package hpastar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepperMatchesSearch(t *testing.T) {
	grid := newCellGrid(6, 6, cell{2, 0}, cell{2, 1}, cell{2, 2}, cell{2, 3})
	start, goal := cell{0, 0}, cell{5, 0}

	want, err := Search[cell](context.Background(), grid, start, goal)
	require.NoError(t, err)

	stepper, err := NewStepper[cell](grid, start, goal)
	require.NoError(t, err)
	defer stepper.Close()
	assert.Equal(t, 1, grid.gate.Ticket())

	var snapshot StepSnapshot[cell]
	for !snapshot.Done {
		snapshot = stepper.Step()
	}
	assert.True(t, snapshot.Found)
	assert.NoError(t, snapshot.Err)
	assert.Equal(t, want.Path, snapshot.Path)
	assert.Equal(t, want.ExpandedNodes, snapshot.StepIndex)
	assert.Equal(t, goal, snapshot.Current)
	assert.True(t, snapshot.Closed[goal])
	assert.Equal(t, 0, grid.gate.Ticket(), "ticket released once done")

	result, err := stepper.Result()
	require.NoError(t, err)
	assert.Equal(t, want, result)

	again := stepper.Step()
	assert.Equal(t, snapshot.StepIndex, again.StepIndex)
}

func TestStepperSnapshots(t *testing.T) {
	grid := newCellGrid(3, 1)
	stepper, err := NewStepper[cell](grid, cell{0, 0}, cell{2, 0})
	require.NoError(t, err)
	defer stepper.Close()

	first := stepper.Step()
	assert.Equal(t, 1, first.StepIndex)
	assert.Equal(t, cell{0, 0}, first.Current)
	assert.True(t, first.Closed[cell{0, 0}])
	assert.True(t, first.Open[cell{1, 0}])
	assert.Equal(t, cell{0, 0}, first.CameFrom[cell{1, 0}])
	assert.False(t, first.Done)
	assert.Nil(t, first.Path)
}

func TestStepperReportsFailure(t *testing.T) {
	grid := newCellGrid(3, 1, cell{1, 0})
	stepper, err := NewStepper[cell](grid, cell{0, 0}, cell{2, 0})
	require.NoError(t, err)

	snapshot := stepper.Step()
	assert.True(t, snapshot.Done)
	assert.False(t, snapshot.Found)
	assert.ErrorIs(t, snapshot.Err, ErrUnreachable)
	assert.Zero(t, grid.gate.Ticket())
	stepper.Close()
	assert.Zero(t, grid.gate.Ticket())
}

func TestStepperCloseReleasesTicket(t *testing.T) {
	grid := newCellGrid(10, 10)
	stepper, err := NewStepper[cell](grid, cell{0, 0}, cell{9, 9})
	require.NoError(t, err)
	stepper.Step()
	assert.Equal(t, 1, grid.gate.Ticket())

	stepper.Close()
	stepper.Close()
	assert.Zero(t, grid.gate.Ticket())
}

func TestStepperUnknownStart(t *testing.T) {
	grid := newCellGrid(2, 2)
	_, err := NewStepper[cell](grid, cell{5, 5}, cell{0, 0})
	require.ErrorIs(t, err, ErrNodeNotFound)
	assert.Zero(t, grid.gate.Ticket())
}

func TestStepperResultBeforeDone(t *testing.T) {
	grid := newCellGrid(10, 1)
	stepper, err := NewStepper[cell](grid, cell{0, 0}, cell{9, 0})
	require.NoError(t, err)
	defer stepper.Close()

	stepper.Step()
	_, err = stepper.Result()
	require.ErrorIs(t, err, ErrSearchInProgress)
	assert.NotErrorIs(t, err, ErrUnreachable)

	for !stepper.Step().Done {
	}
	result, err := stepper.Result()
	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Len(t, result.Path, 10)
}
