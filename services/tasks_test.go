package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTasksRunAndDrain(t *testing.T) {
	tasks := NewTasks(zap.NewNop(), 2, 1)

	var ran atomic.Int32
	for i := 0; i < 20; i++ {
		tasks.Go("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}
	tasks.Close()

	assert.Equal(t, int32(20), ran.Load())
}

func TestTasksLogFailuresAndPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	tasks := NewTasks(zap.New(core), 1, 4)

	tasks.Go("fails", func(ctx context.Context) error { return errors.New("boom") })
	tasks.Go("panics", func(ctx context.Context) error { panic("bad") })
	tasks.Close()

	entries := logs.FilterMessage("background task failed").All()
	assert.Len(t, entries, 2)
}

func TestTasksDropAfterClose(t *testing.T) {
	tasks := NewTasks(zap.NewNop(), 1, 1)
	tasks.Close()
	tasks.Close()

	var ran atomic.Bool
	tasks.Go("late", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	assert.False(t, ran.Load())
}
