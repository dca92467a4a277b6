package mmodel

import (
	"testing"
	"time"

	"github.com/openledgerhq/transfer-engine/pkg/constant"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	legal := [][2]string{
		{constant.TransferStatusPending, constant.TransferStatusDebitProcessing},
		{constant.TransferStatusPending, constant.TransferStatusCancelled},
		{constant.TransferStatusDebitProcessing, constant.TransferStatusCreditProcessing},
		{constant.TransferStatusDebitProcessing, constant.TransferStatusDebitFailed},
		{constant.TransferStatusCreditProcessing, constant.TransferStatusCompleted},
	}

	statuses := []string{
		constant.TransferStatusPending,
		constant.TransferStatusDebitProcessing,
		constant.TransferStatusCreditProcessing,
		constant.TransferStatusCompleted,
		constant.TransferStatusDebitFailed,
		constant.TransferStatusCancelled,
	}

	isLegal := func(from, to string) bool {
		for _, edge := range legal {
			if edge[0] == from && edge[1] == to {
				return true
			}
		}

		return false
	}

	for _, from := range statuses {
		for _, to := range statuses {
			assert.Equal(t, isLegal(from, to), CanTransition(from, to), "edge %s -> %s", from, to)
		}
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	terminal := []string{
		constant.TransferStatusCompleted,
		constant.TransferStatusDebitFailed,
		constant.TransferStatusCancelled,
	}

	all := []string{
		constant.TransferStatusPending,
		constant.TransferStatusDebitProcessing,
		constant.TransferStatusCreditProcessing,
		constant.TransferStatusCompleted,
		constant.TransferStatusDebitFailed,
		constant.TransferStatusCancelled,
	}

	for _, from := range terminal {
		assert.True(t, IsTerminalStatus(from))

		for _, to := range all {
			assert.False(t, CanTransition(from, to), "terminal %s must not transition to %s", from, to)
		}
	}

	assert.False(t, IsTerminalStatus(constant.TransferStatusPending))
	assert.False(t, IsTerminalStatus(constant.TransferStatusDebitProcessing))
}

func TestIsCancellable(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name     string
		transfer Transfer
		expected bool
	}{
		{
			name:     "pending inside the window",
			transfer: Transfer{Status: constant.TransferStatusPending, CreatedAt: now.Add(-5 * time.Minute)},
			expected: true,
		},
		{
			name:     "pending past the window",
			transfer: Transfer{Status: constant.TransferStatusPending, CreatedAt: now.Add(-11 * time.Minute)},
			expected: false,
		},
		{
			name:     "in-flight inside the window",
			transfer: Transfer{Status: constant.TransferStatusDebitProcessing, CreatedAt: now.Add(-1 * time.Minute)},
			expected: false,
		},
		{
			name:     "completed",
			transfer: Transfer{Status: constant.TransferStatusCompleted, CreatedAt: now.Add(-1 * time.Minute)},
			expected: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.transfer.IsCancellable(now))
		})
	}
}

func TestIsInFlightStatus(t *testing.T) {
	assert.True(t, IsInFlightStatus(constant.TransferStatusDebitProcessing))
	assert.True(t, IsInFlightStatus(constant.TransferStatusCreditProcessing))
	assert.False(t, IsInFlightStatus(constant.TransferStatusPending))
	assert.False(t, IsInFlightStatus(constant.TransferStatusCompleted))
}
