package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriggerInRegistrationOrder(t *testing.T) {
	var e Emitter[string]
	var got []string
	e.On("afterdestroy", func(d string) { got = append(got, "a:"+d) })
	e.On("afterdestroy", func(d string) { got = append(got, "b:"+d) })

	e.Trigger("afterdestroy", "x")

	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestTriggerWithoutHandlers(t *testing.T) {
	var e Emitter[int]
	assert.NotPanics(t, func() { e.Trigger("nothing", 1) })
	assert.Equal(t, 0, e.Count("nothing"))
}

func TestDuplicateRegistrationRunsTwice(t *testing.T) {
	var e Emitter[any]
	calls := 0
	fn := func(any) { calls++ }
	e.On("afterdestroy", fn)
	e.On("afterdestroy", fn)

	e.Trigger("afterdestroy", nil)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, e.Count("afterdestroy"))
}

func TestHandlerAddedDuringTrigger(t *testing.T) {
	var e Emitter[int]
	calls := 0
	e.On("tick", func(int) {
		e.On("tick", func(int) { calls++ })
	})

	e.Trigger("tick", 0)
	assert.Equal(t, 0, calls, "new handler must not run in the current round")

	e.Trigger("tick", 0)
	assert.Equal(t, 1, calls)
}

func TestNamesAreIndependent(t *testing.T) {
	var e Emitter[int]
	sum := 0
	e.On("a", func(v int) { sum += v })
	e.On("b", func(v int) { sum += 10 * v })

	e.Trigger("a", 1)
	assert.Equal(t, 1, sum)
}
