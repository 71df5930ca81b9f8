package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	model "github.com/okian/planmatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func result(id string) model.MatchResult {
	return model.MatchResult{ID: id}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store bounded to three results", t, func() {
		s := NewMemoryStore(WithMaxSize(3))

		Convey("When three results are stored", func() {
			for _, id := range []string{"a", "b", "c"} {
				evicted, err := s.Put(ctx, result(id))
				So(err, ShouldBeNil)
				So(evicted, ShouldEqual, 0)
			}

			Convey("Then each can be read back", func() {
				So(s.Size(), ShouldEqual, 3)
				got, err := s.Get(ctx, "b")
				So(err, ShouldBeNil)
				So(got.ID, ShouldEqual, "b")
			})

			Convey("And a fourth arrives", func() {
				evicted, err := s.Put(ctx, result("d"))
				So(err, ShouldBeNil)

				Convey("Then the oldest is evicted", func() {
					So(evicted, ShouldEqual, 1)
					So(s.Size(), ShouldEqual, 3)
					_, err := s.Get(ctx, "a")
					So(err, ShouldEqual, ErrNotFound)
					_, err = s.Get(ctx, "d")
					So(err, ShouldBeNil)
				})
			})

			Convey("And an existing ID is stored again", func() {
				updated := result("a")
				updated.Excluded = []model.Exclusion{{PlanID: "x"}}
				evicted, err := s.Put(ctx, updated)
				So(err, ShouldBeNil)
				So(evicted, ShouldEqual, 0)

				Convey("Then it is replaced in place and stays oldest", func() {
					got, _ := s.Get(ctx, "a")
					So(got.Excluded, ShouldHaveLength, 1)
					_, _ = s.Put(ctx, result("e"))
					_, err := s.Get(ctx, "a")
					So(err, ShouldEqual, ErrNotFound)
				})
			})
		})

		Convey("When a result has no ID", func() {
			_, err := s.Put(ctx, model.MatchResult{})
			So(err, ShouldEqual, ErrMissingID)
			So(s.Size(), ShouldEqual, 0)
		})

		Convey("When the single entry is evicted", func() {
			one := NewMemoryStore(WithMaxSize(1))
			_, _ = one.Put(ctx, result("x"))
			evicted, _ := one.Put(ctx, result("y"))

			Convey("Then head and tail stay consistent", func() {
				So(evicted, ShouldEqual, 1)
				So(one.Size(), ShouldEqual, 1)
				So(one.head, ShouldEqual, one.tail)
				So(one.head.result.ID, ShouldEqual, "y")
			})
		})
	})

	Convey("Given an unbounded store", t, func() {
		s := NewMemoryStore(WithMaxSize(0))
		for i := 0; i < 100; i++ {
			_, err := s.Put(ctx, result(fmt.Sprintf("r%d", i)))
			So(err, ShouldBeNil)
		}
		So(s.Size(), ShouldEqual, 100)
	})

	Convey("Given concurrent writers and readers", t, func() {
		s := NewMemoryStore(WithMaxSize(50))
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					id := fmt.Sprintf("w%d-%d", w, i)
					_, _ = s.Put(ctx, result(id))
					_, _ = s.Get(ctx, id)
				}
			}(w)
		}
		wg.Wait()

		Convey("Then the bound holds", func() {
			So(s.Size(), ShouldEqual, 50)
			So(len(s.byID), ShouldEqual, 50)
		})
	})
}
