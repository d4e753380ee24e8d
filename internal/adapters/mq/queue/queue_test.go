package queue_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/aquametrics/strokecore/internal/adapters/mq/queue"
	"github.com/aquametrics/strokecore/internal/domain/model"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()
	base := time.Unix(1_700_000_000, 0)
	frameAt := func(i int) queue.Frame {
		return model.NoDetection(base.Add(time.Duration(i) * 33 * time.Millisecond))
	}

	Convey("Given a bounded frame queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(3))

		Convey("When frames are enqueued within capacity", func() {
			So(q.Enqueue(ctx, frameAt(0)), ShouldBeTrue)
			So(q.Enqueue(ctx, frameAt(1)), ShouldBeTrue)

			Convey("Then they dequeue in order", func() {
				So(q.Len(), ShouldEqual, 2)
				first := <-q.Dequeue()
				So(first.Timestamp.Equal(base), ShouldBeTrue)
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 3; i++ {
				So(q.Enqueue(ctx, frameAt(i)), ShouldBeTrue)
			}
			dropped := q.Enqueue(ctx, frameAt(3))

			Convey("Then the newest frame is dropped without blocking", func() {
				So(dropped, ShouldBeFalse)
				So(q.Len(), ShouldEqual, 3)
			})

			Convey("Then draining one slot admits the next frame", func() {
				<-q.Dequeue()
				So(q.Enqueue(ctx, frameAt(4)), ShouldBeTrue)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, frameAt(0)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue is rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, frameAt(1)), ShouldBeFalse)
			})

			Convey("Then queued frames drain before the channel closes", func() {
				_, ok := <-q.Dequeue()
				So(ok, ShouldBeTrue)
				_, ok = <-q.Dequeue()
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the enqueue context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			for i := 0; i < 3; i++ {
				So(q.Enqueue(ctx, frameAt(i)), ShouldBeTrue)
			}

			Convey("Then the frame is not enqueued", func() {
				So(q.Enqueue(cancelled, frameAt(3)), ShouldBeFalse)
				So(q.Len(), ShouldEqual, 3)
			})
		})
	})
}
