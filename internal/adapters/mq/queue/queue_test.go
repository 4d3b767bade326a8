package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func job(id string) Job {
	return Job{ID: id, Wallet: "W-" + id, Variant: "advanced", Reason: "test", EnqueuedAt: time.Now()}
}

func TestInMemoryQueue(t *testing.T) {
	convey.Convey("Given an in-memory queue of capacity 2", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(2))

		convey.Convey("it starts empty and open", func() {
			convey.So(q.Len(ctx), convey.ShouldEqual, 0)
			convey.So(q.Cap(), convey.ShouldEqual, 2)
			convey.So(q.IsClosed(), convey.ShouldBeFalse)
		})

		convey.Convey("enqueued jobs are delivered in order", func() {
			convey.So(q.Enqueue(ctx, job("a")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, job("b")), convey.ShouldBeTrue)
			convey.So(q.Len(ctx), convey.ShouldEqual, 2)

			dctx, cancel := context.WithCancel(ctx)
			defer cancel()
			ch := q.Dequeue(dctx)
			convey.So((<-ch).ID, convey.ShouldEqual, "a")
			convey.So((<-ch).ID, convey.ShouldEqual, "b")
		})

		convey.Convey("a full queue refuses jobs", func() {
			convey.So(q.Enqueue(ctx, job("a")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, job("b")), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, job("c")), convey.ShouldBeFalse)
			convey.So(errors.Is(q.Submit(ctx, job("c")), ErrFull), convey.ShouldBeTrue)
			convey.So(q.Len(ctx), convey.ShouldEqual, 2)
		})

		convey.Convey("a cancelled context refuses jobs", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			convey.So(errors.Is(q.Submit(cctx, job("a")), context.Canceled), convey.ShouldBeTrue)
			convey.So(q.Len(ctx), convey.ShouldEqual, 0)
		})

		convey.Convey("closing keeps queued jobs readable and refuses new ones", func() {
			convey.So(q.Enqueue(ctx, job("a")), convey.ShouldBeTrue)
			convey.So(q.Close(), convey.ShouldBeNil)
			convey.So(q.Close(), convey.ShouldBeNil)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)
			convey.So(errors.Is(q.Submit(ctx, job("b")), ErrClosed), convey.ShouldBeTrue)

			ch := q.Dequeue(ctx)
			convey.So((<-ch).ID, convey.ShouldEqual, "a")
			select {
			case _, ok := <-ch:
				convey.So(ok, convey.ShouldBeFalse)
			case <-time.After(time.Second):
				convey.So("dequeue channel not closed", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	convey.Convey("Concurrent producers and a consumer see every job once", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := NewInMemoryQueue(WithCapacity(16))
		const producers, perProducer = 8, 50

		var wg sync.WaitGroup
		for p := 0; p < producers; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < perProducer; i++ {
					for !q.Enqueue(ctx, job(fmt.Sprintf("%d-%d", p, i))) {
						time.Sleep(time.Millisecond)
					}
				}
			}(p)
		}

		seen := make(map[string]bool)
		ch := q.Dequeue(ctx)
		for len(seen) < producers*perProducer {
			j := <-ch
			seen[j.ID] = true
		}
		wg.Wait()

		convey.So(len(seen), convey.ShouldEqual, producers*perProducer)
		convey.So(q.Len(ctx), convey.ShouldEqual, 0)
	})
}
