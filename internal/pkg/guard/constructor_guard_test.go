package guard_test

import (
	"errors"
	"sync"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("command not constructed")

		err := g.Validate(expected)

		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	type markReadyCommand struct {
		orderID int64
		guard   guard.ConstructorGuard
	}
	errNotConstructed := errors.New("markReadyCommand must be created via its constructor")

	newCommand := func(orderID int64) (markReadyCommand, error) {
		if orderID <= 0 {
			return markReadyCommand{}, errors.New("order id is required")
		}
		return markReadyCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed command validates", func(t *testing.T) {
		cmd, err := newCommand(42)

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("literal command fails validation", func(t *testing.T) {
		cmd := markReadyCommand{orderID: 42}

		assert.Equal(t, errNotConstructed, cmd.guard.Validate(errNotConstructed))
	})
}

func TestConstructorGuard_Concurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, g.Validate(nil))
		}()
	}
	wg.Wait()
}
