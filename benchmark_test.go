package courier

import (
	"testing"
	"time"

	"github.com/courierhq/courier-go/adapters"
)

type discardSender struct{}

func (discardSender) Send(string, []byte) ([]byte, error) { return nil, nil }

func BenchmarkDispatch(b *testing.B) {
	d, _ := newTestDispatcher(Config{BatchSize: 100, FlushInterval: time.Minute}, discardSender{})
	payload := []byte(`{"event":"impression","experiment":"exp-1","variation":"b"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Dispatch(EventRecord{Payload: payload}, nil)
	}
}

func BenchmarkFlushDrain(b *testing.B) {
	payload := []byte(`{"event":"conversion"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		queue := NewEventQueue(adapters.NewMemoryStore(), adapters.NewNoopLogger())
		for j := 0; j < 100; j++ {
			queue.Save(EventRecord{Payload: payload})
		}
		d := NewDispatcher(Config{BatchSize: 10, FlushInterval: time.Minute}, queue, discardSender{}, adapters.NewNoopLogger())
		b.StartTimer()

		d.Flush()
	}
}

func BenchmarkQueueSave(b *testing.B) {
	queue := NewEventQueue(adapters.NewMemoryStore(), adapters.NewNoopLogger())
	payload := []byte(`{"event":"impression"}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		queue.Save(EventRecord{Payload: payload})
	}
}
