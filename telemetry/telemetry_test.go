package telemetry

import (
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCounterAdd(t *testing.T) {
	Convey("When many writers add to a Counter concurrently", t, func() {
		var c Counter
		numOps := 3000
		numWriters := 200

		start := make(chan struct{})
		wg := sync.WaitGroup{}
		wg.Add(numWriters)
		for i := 0; i < numWriters; i++ {
			go func() {
				<-start
				for j := 0; j < numOps; j++ {
					c.Add(1.0)
				}
				wg.Done()
			}()
		}
		close(start)
		wg.Wait()

		Convey("Then no update is lost to a race", func() {
			So(c.Read(), ShouldEqual, float64(numOps*numWriters))
		})
	})
}

func TestCounterReset(t *testing.T) {
	Convey("Given a counter with accumulated value", t, func() {
		var c Counter
		c.Add(5)
		c.Add(2.5)

		Convey("When reset", func() {
			prev := c.Reset()

			Convey("Then it returns the pre-reset value and reads zero afterward", func() {
				So(prev, ShouldEqual, float64(7.5))
				So(c.Read(), ShouldEqual, float64(0))
			})
		})
	})
}
