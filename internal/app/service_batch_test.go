package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/planmatch/internal/app"
	model "github.com/okian/planmatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_MatchBatch(t *testing.T) {
	Convey("Given a started service with a small batch limit", t, func() {
		svc := service.New(service.WithMaxBatchSize(4), service.WithBatchConcurrency(2))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a batch mixes valid and invalid responses", func() {
			items, err := svc.MatchBatch(ctx, []model.QuestionnaireResponse{
				{Age: 30, CoverageType: model.CoverageJustMe},
				{Age: 30},
				{Age: 61, CoverageType: model.CoverageMeSpouse, PreExisting: true},
			})

			Convey("Then each item carries its own outcome in input order", func() {
				So(err, ShouldBeNil)
				So(items, ShouldHaveLength, 3)
				for i, it := range items {
					So(it.Index, ShouldEqual, i)
				}
				So(items[0].Err, ShouldBeNil)
				So(items[0].Result, ShouldNotBeNil)
				So(errors.Is(items[1].Err, model.ErrInvalidResponse), ShouldBeTrue)
				So(items[1].Result, ShouldBeNil)
				So(items[2].Err, ShouldBeNil)
			})
		})

		Convey("When the batch is too large", func() {
			resps := make([]model.QuestionnaireResponse, 5)
			_, err := svc.MatchBatch(ctx, resps)
			So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
		})

		Convey("When the batch is empty", func() {
			_, err := svc.MatchBatch(ctx, nil)
			So(errors.Is(err, service.ErrEmptyBatch), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.MatchBatch(cctx, []model.QuestionnaireResponse{{Age: 30, CoverageType: model.CoverageJustMe}})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
