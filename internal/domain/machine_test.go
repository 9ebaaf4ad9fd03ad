package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeviceSampleNormalizedTimeRemaining(t *testing.T) {
	now := time.Now()
	minutes := func(v int) *int { return &v }

	t.Run("positive value passes through", func(t *testing.T) {
		s := DeviceSample{TimeRemainingMinutes: minutes(42), ObservedAt: now}
		assert.Equal(t, 42, *s.NormalizedTimeRemaining())
	})

	t.Run("zero is meaningful", func(t *testing.T) {
		s := DeviceSample{TimeRemainingMinutes: minutes(0), ObservedAt: now}
		assert.Equal(t, 0, *s.NormalizedTimeRemaining())
	})

	t.Run("negative becomes nil", func(t *testing.T) {
		s := DeviceSample{TimeRemainingMinutes: minutes(-5), ObservedAt: now}
		assert.Nil(t, s.NormalizedTimeRemaining())
	})

	t.Run("absent stays nil", func(t *testing.T) {
		s := DeviceSample{ObservedAt: now}
		assert.Nil(t, s.NormalizedTimeRemaining())
	})
}

func TestKnownResource(t *testing.T) {
	assert.True(t, KnownResource(ResourceWasher))
	assert.True(t, KnownResource(ResourceDryer))
	assert.False(t, KnownResource("dishwasher"))
	assert.False(t, KnownResource(""))
}
