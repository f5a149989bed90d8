package dashboard

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"gridcore/runner"
)

func TestHealthEndpoint(t *testing.T) {
	Convey("Given a hub with no reports", t, func() {
		reports := make(chan runner.EpisodeReport)
		hub := New("", reports)

		Convey("Then /healthz responds ok", func() {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/healthz", nil)
			hub.serveHealth(rr, req)
			So(rr.Code, ShouldEqual, 200)
			So(rr.Body.String(), ShouldEqual, "ok")
		})
	})
}

func TestRegistryFansOutToMultipleSubscribers(t *testing.T) {
	Convey("Given a registry fed by a source channel", t, func() {
		done := make(chan struct{})
		defer close(done)
		source := make(chan runner.EpisodeReport)
		reg := &registry{subscribe: make(chan chan runner.EpisodeReport), done: done}
		go reg.run(source)

		a := reg.join()
		b := reg.join()

		report := runner.EpisodeReport{WorkerID: 1, Ticks: 10, Reward: 2.5, Terminated: true}

		Convey("When a report is published, every subscriber receives it", func() {
			go func() { source <- report }()

			var gotA, gotB runner.EpisodeReport
			select {
			case gotA = <-a:
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for subscriber a")
			}
			select {
			case gotB = <-b:
			case <-time.After(time.Second):
				t.Fatal("timed out waiting for subscriber b")
			}

			So(gotA, ShouldResemble, report)
			So(gotB, ShouldResemble, report)
		})
	})
}

func TestMarshalForLog(t *testing.T) {
	Convey("Given an episode report", t, func() {
		report := runner.EpisodeReport{WorkerID: 2, Ticks: 5, Reward: -1, Terminated: true}

		Convey("Then it marshals to JSON containing its fields", func() {
			out := MarshalForLog(report)
			So(out, ShouldContainSubstring, `"Ticks":5`)
			So(out, ShouldContainSubstring, `"Terminated":true`)
		})
	})
}

func TestServeWebsocketStreamsReports(t *testing.T) {
	Convey("Given a running hub serving a websocket endpoint", t, func() {
		source := make(chan runner.EpisodeReport, 1)
		hub := New("", source)
		reg := &registry{subscribe: make(chan chan runner.EpisodeReport), done: make(chan struct{})}
		go reg.run(source)

		server := httptest.NewServer(newRouter(hub, reg))
		defer server.Close()

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		report := runner.EpisodeReport{WorkerID: 3, Ticks: 7, Reward: 1, Terminated: false}
		source <- report

		Convey("Then the connected client receives the report as JSON", func() {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			var got runner.EpisodeReport
			err := conn.ReadJSON(&got)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, report)
		})
	})
}
