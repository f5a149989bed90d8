package collision

import (
	"testing"

	"gridcore/enemystate"
	"gridcore/gridstate"

	. "github.com/smartystreets/goconvey/convey"
)

func armedWall(g *gridstate.State, y, x int, hp uint8) {
	g.Grid[y][x] = 1
	g.WallHP[y][x] = hp
	g.WallArmed[y][x] = true
}

func TestDetect(t *testing.T) {
	Convey("Given an armed wall and a pending wall", t, func() {
		g := gridstate.New()
		armedWall(g, 4, 6, 3)
		g.PlaceWall(2, 2) // pending, not armed

		e := enemystate.New()
		e.Alive[0], e.YHalf[0], e.X[0] = true, 8, 6  // on the armed wall (cell row 4)
		e.Alive[1], e.YHalf[1], e.X[1] = true, 4, 2  // on the pending wall (cell row 2)
		e.Alive[2], e.YHalf[2], e.X[2] = true, 0, 0  // empty cell
		// slot 3 dead

		Convey("When collisions are detected", func() {
			mask := Detect(g, e)

			Convey("Then only the enemy on the armed wall is marked", func() {
				So(mask[0], ShouldBeTrue)
				So(mask[1], ShouldBeFalse)
				So(mask[2], ShouldBeFalse)
				So(mask[3], ShouldBeFalse)
			})
		})
	})
}

func TestResolveDamageStacking(t *testing.T) {
	Convey("S3: three enemies stacked on a wall with 3 HP", t, func() {
		g := gridstate.New()
		armedWall(g, 4, 6, 3)

		e := enemystate.New()
		for i := 0; i < 3; i++ {
			e.Alive[i], e.YHalf[i], e.X[i] = true, 8, 6
		}

		mask := Detect(g, e)
		So(mask[0], ShouldBeTrue)
		So(mask[1], ShouldBeTrue)
		So(mask[2], ShouldBeTrue)

		killed, destroyed := Resolve(g, e, mask)

		Convey("Then all three die and the wall is destroyed", func() {
			So(killed, ShouldEqual, 3)
			So(destroyed, ShouldEqual, 1)
			So(g.Grid[4][6], ShouldEqual, uint8(0))
			So(g.WallHP[4][6], ShouldEqual, uint8(0))
			So(g.WallArmed[4][6], ShouldBeFalse)
			So(e.Alive[0], ShouldBeFalse)
			So(e.Alive[1], ShouldBeFalse)
			So(e.Alive[2], ShouldBeFalse)
		})
	})

	Convey("S4: two enemies against a wall with 3 HP", t, func() {
		g := gridstate.New()
		armedWall(g, 4, 6, 3)

		e := enemystate.New()
		for i := 0; i < 2; i++ {
			e.Alive[i], e.YHalf[i], e.X[i] = true, 8, 6
		}

		mask := Detect(g, e)
		killed, destroyed := Resolve(g, e, mask)

		Convey("Then both enemies die but the wall survives with reduced HP", func() {
			So(killed, ShouldEqual, 2)
			So(destroyed, ShouldEqual, 0)
			So(g.WallHP[4][6], ShouldEqual, uint8(1))
			So(g.WallArmed[4][6], ShouldBeTrue)
		})
	})
}

func TestDetectCoreBreach(t *testing.T) {
	Convey("Given one enemy just short of the core and one at the core", t, func() {
		e := enemystate.New()
		e.Alive[0], e.YHalf[0] = true, 15
		So(DetectCoreBreach(e), ShouldBeFalse)

		e.Alive[1], e.YHalf[1] = true, 16
		Convey("Then a breach is detected once any enemy reaches CoreYHalf", func() {
			So(DetectCoreBreach(e), ShouldBeTrue)
		})
	})

	Convey("Given no alive enemies at all", t, func() {
		e := enemystate.New()
		So(DetectCoreBreach(e), ShouldBeFalse)
	})
}
