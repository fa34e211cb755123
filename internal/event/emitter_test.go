package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vsxregistry/internal/event"
)

func TestEmitter_FireOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()

	e := event.NewEmitter[string]()
	var got []string

	unsubA := e.Subscribe(func(s string) { got = append(got, "a:"+s) })
	e.Subscribe(func(s string) { got = append(got, "b:"+s) })

	e.Fire("one")
	unsubA()
	unsubA()
	e.Fire("two")

	assert.Equal(t, []string{"a:one", "b:one", "b:two"}, got)
	assert.Equal(t, 1, e.Len())
}

func TestSignal_FiresUnconditionally(t *testing.T) {
	t.Parallel()

	s := event.NewSignal()
	count := 0
	s.Subscribe(func() { count++ })

	s.Fire()
	s.Fire()

	assert.Equal(t, 2, count)
}

func TestSignal_ListenerMayUnsubscribeWhileFiring(t *testing.T) {
	t.Parallel()

	s := event.NewSignal()
	count := 0
	var unsub event.Unsubscribe
	unsub = s.Subscribe(func() {
		count++
		unsub()
	})

	s.Fire()
	s.Fire()

	assert.Equal(t, 1, count)
	assert.Zero(t, s.Len())
}

func TestDisposables_ReleasesAll(t *testing.T) {
	t.Parallel()

	var d event.Disposables
	s := event.NewSignal()
	d.Push(s.Subscribe(func() {}))
	d.Push(s.Subscribe(func() {}))
	assert.Equal(t, 2, s.Len())

	d.Dispose()
	d.Dispose()

	assert.Zero(t, s.Len())
}
