package display_test

import (
	"errors"
	"math"
	"testing"

	display "github.com/okian/planmatch/internal/domain/display"
	"github.com/smartystreets/goconvey/convey"
)

func TestScores(t *testing.T) {
	convey.Convey("Given five ranked raw scores", t, func() {
		raws := []float64{95, 90, 85, 80, 75}

		convey.Convey("When converted", func() {
			got, err := display.Scores(raws)

			convey.Convey("Then the floor schedule and ceiling apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldResemble, []int{99, 93, 85, 82, 80})
			})
		})

		convey.Convey("When given out of order", func() {
			got, err := display.Scores([]float64{75, 95, 85, 80, 90})
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldResemble, []int{99, 93, 85, 82, 80})
		})

		convey.Convey("Then the input slice is not reordered", func() {
			in := []float64{1, 3, 2}
			_, err := display.Scores(in)
			convey.So(err, convey.ShouldBeNil)
			convey.So(in, convey.ShouldResemble, []float64{1, 3, 2})
		})
	})

	convey.Convey("Given any finite scores", t, func() {
		raws := []float64{-40, 0, 3.5, 12, 50, 61.2, 99, 140, 1e6, 7, 7, 22}
		got, err := display.Scores(raws)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then every value sits between its rank floor and 99", func() {
			for i, v := range got {
				convey.So(v, convey.ShouldBeGreaterThanOrEqualTo, display.Floor(i))
				convey.So(v, convey.ShouldBeLessThanOrEqualTo, 99)
			}
		})
	})

	convey.Convey("Given an empty list", t, func() {
		got, err := display.Scores(nil)
		convey.So(err, convey.ShouldBeNil)
		convey.So(got, convey.ShouldBeEmpty)
	})

	convey.Convey("Given a non-finite score", t, func() {
		for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := display.Scores([]float64{10, bad})
			convey.So(errors.Is(err, display.ErrNonFiniteScore), convey.ShouldBeTrue)
		}
	})
}

func TestScore(t *testing.T) {
	convey.Convey("Given single conversions", t, func() {
		convey.Convey("Then deep ranks get the minimum boost and default floor", func() {
			convey.So(display.Boost(3), convey.ShouldEqual, 6)
			convey.So(display.Boost(10), convey.ShouldEqual, 4)
			convey.So(display.Floor(9), convey.ShouldEqual, 80)

			v, err := display.Score(6, 90)
			convey.So(err, convey.ShouldBeNil)
			convey.So(v, convey.ShouldEqual, 87)
		})

		convey.Convey("Then a negative rank is rejected", func() {
			_, err := display.Score(-1, 50)
			convey.So(errors.Is(err, display.ErrInvalidRank), convey.ShouldBeTrue)
		})
	})
}
