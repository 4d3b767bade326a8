package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/mq/queue"
	"github.com/Danish0703/algorand-reputation-system/internal/adapters/mq/worker"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 64)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockAnalyzer struct {
	mu     sync.Mutex
	scores map[string]int
	errs   map[string]error
}

func newMockAnalyzer() *mockAnalyzer {
	return &mockAnalyzer{scores: map[string]int{}, errs: map[string]error{}}
}

func (ma *mockAnalyzer) AnalyzeVariant(_ context.Context, wallet string, v reputation.Variant) (reputation.Result, error) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	if err, ok := ma.errs[wallet]; ok {
		return reputation.Result{}, err
	}
	return reputation.Result{Wallet: wallet, Variant: v, TotalScore: ma.scores[wallet], Scale: reputation.ScaleCanonical}, nil
}

type mockPublisher struct {
	mu        sync.Mutex
	published map[string]reputation.Result
	err       error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: map[string]reputation.Result{}}
}

func (mp *mockPublisher) Publish(_ context.Context, res reputation.Result) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.err != nil {
		return mp.err
	}
	mp.published[res.Wallet] = res
	return nil
}

func (mp *mockPublisher) get(wallet string) (reputation.Result, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	r, ok := mp.published[wallet]
	return r, ok
}

func (mp *mockPublisher) count() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.published)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a mock queue", t, func() {
		logger.Set(logger.NewNop())

		q := newMockQueue()
		analyzer := newMockAnalyzer()
		publisher := newMockPublisher()
		w := worker.NewInMemoryWorker(q, analyzer, publisher, worker.WithName("test"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("a job is analyzed and published", func() {
			analyzer.scores["W1"] = 640
			q.jobs <- queue.Job{ID: "j1", Wallet: "W1", Variant: "advanced", EnqueuedAt: time.Now()}

			convey.So(eventually(func() bool { _, ok := publisher.get("W1"); return ok }), convey.ShouldBeTrue)
			res, _ := publisher.get("W1")
			convey.So(res.Variant, convey.ShouldEqual, reputation.VariantAdvanced)
			convey.So(res.CanonicalScore(), convey.ShouldEqual, 640)
		})

		convey.Convey("failing jobs do not stop the worker", func() {
			analyzer.errs["BAD"] = errors.New("feed down")
			q.jobs <- queue.Job{ID: "j1", Wallet: "BAD", Variant: "basic"}
			q.jobs <- queue.Job{ID: "j2", Wallet: "W2", Variant: "unknown"}
			q.jobs <- queue.Job{ID: "j3", Wallet: "W3", Variant: "basic"}

			convey.So(eventually(func() bool { _, ok := publisher.get("W3"); return ok }), convey.ShouldBeTrue)
			_, bad := publisher.get("BAD")
			convey.So(bad, convey.ShouldBeFalse)
			_, unknown := publisher.get("W2")
			convey.So(unknown, convey.ShouldBeFalse)
		})

		convey.Convey("Shutdown stops the loop", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of four workers", t, func() {
		logger.Set(logger.NewNop())

		q := newMockQueue()
		analyzer := newMockAnalyzer()
		publisher := newMockPublisher()
		pool := worker.NewPool(4, q, analyzer, publisher)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("every job is processed once", func() {
			for i := 0; i < 40; i++ {
				q.jobs <- queue.Job{ID: fmt.Sprint(i), Wallet: fmt.Sprintf("W%d", i), Variant: "basic"}
			}
			convey.So(eventually(func() bool { return publisher.count() == 40 }), convey.ShouldBeTrue)
			convey.So(pool.GetStats().Processed, convey.ShouldEqual, 40)
			convey.So(pool.GetStats().Workers, convey.ShouldEqual, 4)
		})

		convey.Convey("publish errors are counted", func() {
			publisher.err = errors.New("store down")
			q.jobs <- queue.Job{ID: "x", Wallet: "W", Variant: "basic"}
			convey.So(eventually(func() bool { return pool.GetStats().Failed == 1 }), convey.ShouldBeTrue)
		})

		convey.Convey("Shutdown drains queued jobs then returns", func() {
			for i := 0; i < 10; i++ {
				q.jobs <- queue.Job{ID: fmt.Sprint(i), Wallet: fmt.Sprintf("D%d", i), Variant: "basic"}
			}
			convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
			convey.So(publisher.count(), convey.ShouldEqual, 10)
		})
	})
}

func TestNewPoolDefaults(t *testing.T) {
	convey.Convey("A non-positive worker count falls back to a CPU-based default", t, func() {
		logger.Set(logger.NewNop())
		pool := worker.NewPool(0, newMockQueue(), newMockAnalyzer(), newMockPublisher())
		convey.So(pool.GetStats().Workers, convey.ShouldBeGreaterThan, 0)
	})
}
