package analysis_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/skipcheck/internal/domain/analysis"
	"github.com/okian/skipcheck/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func verdict(v string) *string { return &v }

// history builds n submissions with descending ids (newest first). Positions
// listed in skipped (1-based) carry the skip verdict, the rest are accepted.
func history(n int, skipped ...int) []model.Submission {
	skip := make(map[int]bool, len(skipped))
	for _, p := range skipped {
		skip[p] = true
	}
	out := make([]model.Submission, n)
	for i := range out {
		v := "OK"
		if skip[i+1] {
			v = analysis.SkipVerdict
		}
		out[i] = model.Submission{
			ID:                  int64(1000 - i),
			CreationTimeSeconds: int64(1_700_000_000 - i*60),
			ProgrammingLanguage: "GNU C++17",
			Verdict:             verdict(v),
			Problem:             model.Problem{Index: "A", Name: "Watermelon"},
		}
	}
	return out
}

func ids(subs []model.Submission) []int64 {
	out := make([]int64, len(subs))
	for i, s := range subs {
		out[i] = s.ID
	}
	return out
}

func TestSummarize(t *testing.T) {
	Convey("Given a submission history", t, func() {
		Convey("When the history is empty", func() {
			result := analysis.Summarize(nil)

			Convey("Then every statistic should be zero and the sample empty", func() {
				So(result.IsSuspicious, ShouldBeFalse)
				So(result.TotalSubmissionCount, ShouldEqual, 0)
				So(result.SuspiciousSubmissionCount, ShouldEqual, 0)
				So(result.SuspiciousPercentage, ShouldEqual, 0)
				So(result.SuspiciousSubmissions, ShouldNotBeNil)
				So(result.SuspiciousSubmissions, ShouldBeEmpty)
			})
		})

		Convey("When no submission is skipped", func() {
			result := analysis.Summarize(history(5))

			Convey("Then the account should be clean", func() {
				So(result.IsSuspicious, ShouldBeFalse)
				So(result.TotalSubmissionCount, ShouldEqual, 5)
				So(result.SuspiciousSubmissionCount, ShouldEqual, 0)
				So(result.SuspiciousPercentage, ShouldEqual, 0)
				So(result.SuspiciousSubmissions, ShouldBeEmpty)
			})
		})

		Convey("When exactly one submission out of many is skipped", func() {
			result := analysis.Summarize(history(200, 137))

			Convey("Then the zero-threshold rule should flag the account", func() {
				So(result.IsSuspicious, ShouldBeTrue)
				So(result.SuspiciousSubmissionCount, ShouldEqual, 1)
				So(result.SuspiciousPercentage, ShouldEqual, 0.5)
				So(ids(result.SuspiciousSubmissions), ShouldResemble, []int64{1000 - 136})
			})
		})

		Convey("When 8 of 12 submissions are skipped", func() {
			subs := history(12, 2, 5, 9, 10, 11, 12, 3, 4)
			result := analysis.Summarize(subs)

			Convey("Then the percentage should be rounded to one decimal", func() {
				So(result.TotalSubmissionCount, ShouldEqual, 12)
				So(result.SuspiciousSubmissionCount, ShouldEqual, 8)
				So(result.SuspiciousPercentage, ShouldEqual, 66.7)
			})

			Convey("Then all eight should be kept in original order", func() {
				want := []int64{999, 998, 997, 996, 992, 991, 990, 989}
				if diff := cmp.Diff(want, ids(result.SuspiciousSubmissions)); diff != "" {
					t.Errorf("sample mismatch (-want +got):\n%s", diff)
				}
				So(ids(result.SuspiciousSubmissions), ShouldResemble, want)
			})
		})

		Convey("When more than ten submissions are skipped", func() {
			skipped := make([]int, 0, 25)
			for p := 1; p <= 50; p += 2 {
				skipped = append(skipped, p)
			}
			subs := history(50, skipped...)
			result := analysis.Summarize(subs)

			Convey("Then the count should reflect every skip while the sample is capped", func() {
				So(result.SuspiciousSubmissionCount, ShouldEqual, 25)
				So(result.SuspiciousPercentage, ShouldEqual, 50)
				So(len(result.SuspiciousSubmissions), ShouldEqual, analysis.MaxSuspiciousSample)
			})

			Convey("Then the sample should be a prefix of the suspicious partition", func() {
				var partition []model.Submission
				for _, s := range subs {
					if analysis.IsSuspicious(s) {
						partition = append(partition, s)
					}
				}
				if diff := cmp.Diff(partition[:analysis.MaxSuspiciousSample], result.SuspiciousSubmissions); diff != "" {
					t.Errorf("sample is not a prefix (-want +got):\n%s", diff)
				}
			})
		})

		Convey("When some submissions are still being judged", func() {
			subs := history(4, 1)
			subs[2].Verdict = nil
			result := analysis.Summarize(subs)

			Convey("Then they should count toward the total but never as suspicious", func() {
				So(result.TotalSubmissionCount, ShouldEqual, 4)
				So(result.SuspiciousSubmissionCount, ShouldEqual, 1)
				So(result.SuspiciousPercentage, ShouldEqual, 25)
			})
		})

		Convey("When verdicts only resemble the skip label", func() {
			subs := history(3)
			subs[0].Verdict = verdict("skipped")
			subs[1].Verdict = verdict("TIME_LIMIT_EXCEEDED")
			subs[2].Verdict = verdict("SKIPPED ")
			result := analysis.Summarize(subs)

			Convey("Then none should match", func() {
				So(result.IsSuspicious, ShouldBeFalse)
				So(result.SuspiciousSubmissionCount, ShouldEqual, 0)
			})
		})

		Convey("When summarising the same input twice", func() {
			subs := history(12, 1, 2)
			before := ids(subs)
			first := analysis.Summarize(subs)
			second := analysis.Summarize(subs)

			Convey("Then the input should be untouched and results identical", func() {
				So(ids(subs), ShouldResemble, before)
				if diff := cmp.Diff(first, second); diff != "" {
					t.Errorf("results differ (-first +second):\n%s", diff)
				}
			})
		})
	})
}

func TestPercentage(t *testing.T) {
	Convey("Given part and total counts", t, func() {
		cases := []struct {
			part, total int
			want        float64
		}{
			{0, 0, 0},
			{0, 7, 0},
			{1, 3, 33.3},
			{2, 3, 66.7},
			{8, 12, 66.7},
			{1, 8, 12.5},
			{5, 5, 100},
		}

		Convey("Then each should match the one-decimal value", func() {
			for _, tc := range cases {
				So(analysis.Percentage(tc.part, tc.total), ShouldEqual, tc.want)
			}
		})

		Convey("Then the value should stay within [0, 100]", func() {
			for total := 1; total <= 40; total++ {
				for part := 0; part <= total; part++ {
					p := analysis.Percentage(part, total)
					So(p, ShouldBeBetweenOrEqual, 0, 100)
				}
			}
		})
	})
}
