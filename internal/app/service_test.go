package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/skipcheck/internal/app"
	"github.com/okian/skipcheck/internal/domain/model"
	"github.com/okian/skipcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func intp(v int) *int { return &v }

func verdict(v string) *string { return &v }

// fakeFetcher serves a canned profile and history for every handle.
type fakeFetcher struct {
	profileErr error
	historyErr error
	history    []model.Submission
	handles    []string
}

func (f *fakeFetcher) FetchProfile(_ context.Context, handle string) (model.Profile, error) {
	f.handles = append(f.handles, handle)
	if f.profileErr != nil {
		return model.Profile{}, f.profileErr
	}
	return model.Profile{Handle: handle, Rating: intp(1500)}, nil
}

func (f *fakeFetcher) FetchHistory(_ context.Context, _ string) ([]model.Submission, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

// stubAnalyzer returns fixed values without touching any fetcher.
type stubAnalyzer struct {
	err error
}

func (a stubAnalyzer) Analyze(_ context.Context, raw string) (model.Profile, model.AnalysisResult, error) {
	if a.err != nil {
		return model.Profile{}, model.AnalysisResult{}, a.err
	}
	return model.Profile{Handle: raw}, model.AnalysisResult{SuspiciousSubmissions: []model.Submission{}}, nil
}

func startedService(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	So(svc.Start(ctx), ShouldBeNil)
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a service without an engine or fetcher", t, func() {
		svc := service.New()

		Convey("When starting it", func() {
			err := svc.Start(context.Background())

			Convey("Then it should refuse to start", func() {
				So(errors.Is(err, service.ErrNoFetcher), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given a service with a fetcher", t, func() {
		svc := service.New(service.WithFetcher(&fakeFetcher{}))
		defer svc.Stop()

		Convey("When starting it twice", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			So(svc.Start(context.Background()), ShouldBeNil)

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats, ShouldContainKey, "uptimeSeconds")
			})
		})
	})

	Convey("Given a started service", t, func() {
		svc := startedService(t, service.WithEngine(stubAnalyzer{}))

		Convey("When stopping it", func() {
			svc.Stop()
			svc.Stop()

			Convey("Then analyses should be refused", func() {
				_, err := svc.Analyze(context.Background(), "tourist")
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Analyze(t *testing.T) {
	Convey("Given a service backed by a fake platform", t, func() {
		fetcher := &fakeFetcher{history: []model.Submission{
			{ID: 3, Verdict: verdict("SKIPPED")},
			{ID: 2, Verdict: verdict("OK")},
			{ID: 1},
		}}
		svc := startedService(t, service.WithFetcher(fetcher))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When analyzing a padded handle", func() {
			report, err := svc.Analyze(ctx, "  tourist ")

			Convey("Then the report should carry the engine output", func() {
				So(err, ShouldBeNil)
				So(report.RequestID, ShouldNotBeEmpty)
				So(report.Profile.Handle, ShouldEqual, "tourist")
				So(report.Result.TotalSubmissionCount, ShouldEqual, 3)
				So(report.Result.SuspiciousSubmissionCount, ShouldEqual, 1)
				So(report.Result.SuspiciousPercentage, ShouldEqual, 33.3)
				So(report.Result.IsSuspicious, ShouldBeTrue)
				So(report.AnalyzedAt.IsZero(), ShouldBeFalse)
				So(fetcher.handles, ShouldResemble, []string{"tourist"})
			})

			Convey("Then the statistics should count it", func() {
				stats := svc.GetStats()
				So(stats["analyses"], ShouldEqual, int64(1))
				So(stats["failures"], ShouldEqual, int64(0))
				So(stats["suspiciousFound"], ShouldEqual, int64(1))
			})
		})

		Convey("When analyzing twice", func() {
			first, _ := svc.Analyze(ctx, "tourist")
			second, _ := svc.Analyze(ctx, "tourist")

			Convey("Then each report should get its own request id", func() {
				So(first.RequestID, ShouldNotEqual, second.RequestID)
			})
		})

		Convey("When the handle is blank", func() {
			report, err := svc.Analyze(ctx, "   ")

			Convey("Then it should fail with InvalidInput without fetching", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
				So(report.RequestID, ShouldNotBeEmpty)
				So(fetcher.handles, ShouldBeEmpty)
				So(svc.GetStats()["failures"], ShouldEqual, int64(1))
			})
		})

		Convey("When the history fetch fails", func() {
			fetcher.historyErr = model.NewFailure(model.KindHistoryFetchFailed, "Call limit exceeded", nil)
			report, err := svc.Analyze(ctx, "tourist")

			Convey("Then the failure should pass through unchanged with the profile kept", func() {
				So(err, ShouldEqual, fetcher.historyErr)
				So(report.Profile.Handle, ShouldEqual, "tourist")
				So(report.Result.TotalSubmissionCount, ShouldEqual, 0)
				So(report.AnalyzedAt.IsZero(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with an injected analyzer", t, func() {
		boom := errors.New("boom")
		svc := startedService(t, service.WithEngine(stubAnalyzer{err: boom}), service.WithFetcher(&fakeFetcher{}))
		defer svc.Stop()

		Convey("When the analyzer fails with an unclassified error", func() {
			_, err := svc.Analyze(context.Background(), "tourist")

			Convey("Then the error should be returned as is", func() {
				So(err, ShouldEqual, boom)
				So(model.KindOf(err), ShouldEqual, model.Kind(""))
			})
		})
	})
}
