package model_test

import (
	"math"
	"testing"

	"github.com/okian/runstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRound2(t *testing.T) {
	Convey("Given ordinary values", t, func() {
		So(model.Round2(12.345678), ShouldEqual, 12.35)
		So(model.Round2(-0.004), ShouldEqual, 0)
	})

	Convey("Given a value too large to scale", t, func() {
		v := 1.7e308

		Convey("Then it is returned unchanged instead of overflowing", func() {
			So(model.Round2(v), ShouldEqual, v)
		})
	})

	Convey("Given non-finite values", t, func() {
		So(math.IsNaN(model.Round2(math.NaN())), ShouldBeTrue)
		So(math.IsInf(model.Round2(math.Inf(-1)), -1), ShouldBeTrue)
	})
}
