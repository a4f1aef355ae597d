package format_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
)

var _ = Describe("Date formatting", func() {
	loc := time.FixedZone("AEST", 10*60*60)
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, loc)

	It("formats dates in the organisation timezone", func() {
		utc := time.Date(2025, 6, 30, 20, 0, 0, 0, time.UTC)
		Expect(format.Date(utc, loc)).To(Equal("Tue 1 Jul 2025"))
		Expect(format.Time(utc, loc)).To(Equal("6:00am"))
	})

	It("returns empty strings for zero times", func() {
		Expect(format.Date(time.Time{}, loc)).To(BeEmpty())
		Expect(format.DateTime(time.Time{}, loc)).To(BeEmpty())
	})

	It("adds the year to short dates only when it differs", func() {
		Expect(format.ShortDate(time.Date(2025, 3, 2, 9, 0, 0, 0, loc), now, loc)).To(Equal("2 Mar"))
		Expect(format.ShortDate(time.Date(2024, 3, 2, 9, 0, 0, 0, loc), now, loc)).To(Equal("2 Mar 2024"))
	})

	It("renders time ranges", func() {
		start := time.Date(2025, 7, 15, 14, 0, 0, 0, loc)
		Expect(format.TimeRange(start, start.Add(90*time.Minute), false, loc)).
			To(Equal("Tue 15 Jul 2025, 2:00pm–3:30pm"))
		Expect(format.TimeRange(start, start.Add(24*time.Hour), true, loc)).
			To(Equal("Tue 15 Jul 2025"))
	})

	DescribeTable("Relative",
		func(t time.Time, expected string) {
			Expect(format.Relative(t, now, loc)).To(Equal(expected))
		},
		Entry("zero", time.Time{}, "never"),
		Entry("seconds", now.Add(-20*time.Second), "just now"),
		Entry("minutes ago", now.Add(-5*time.Minute), "5 min ago"),
		Entry("minutes ahead", now.Add(45*time.Minute), "in 45 min"),
		Entry("hours later today", now.Add(3*time.Hour), "in 3 hours"),
		Entry("one hour ago", now.Add(-time.Hour), "1 hour ago"),
		Entry("yesterday", now.Add(-20*time.Hour), "yesterday"),
		Entry("tomorrow", now.Add(20*time.Hour), "tomorrow"),
		Entry("days ago", now.AddDate(0, 0, -4), "4 days ago"),
		Entry("days ahead", now.AddDate(0, 0, 6), "in 6 days"),
		Entry("far past", time.Date(2025, 1, 2, 9, 0, 0, 0, loc), "Thu 2 Jan 2025"),
	)

	DescribeTable("DaysBetween",
		func(a, b time.Time, expected int) {
			Expect(format.DaysBetween(a, b, loc)).To(Equal(expected))
		},
		Entry("same day", now, now.Add(time.Hour), 0),
		Entry("across midnight", time.Date(2025, 7, 15, 23, 0, 0, 0, loc), time.Date(2025, 7, 16, 1, 0, 0, 0, loc), 1),
		Entry("backwards", now, now.AddDate(0, 0, -10), -10),
	)

	It("computes the start of day in the location", func() {
		utc := time.Date(2025, 7, 14, 15, 30, 0, 0, time.UTC) // 1:30am on the 15th in AEST
		Expect(format.StartOfDay(utc, loc)).To(Equal(time.Date(2025, 7, 15, 0, 0, 0, 0, loc)))
	})

	DescribeTable("Currency",
		func(cents int64, expected string) {
			Expect(format.Currency(cents)).To(Equal(expected))
		},
		Entry("zero", int64(0), "$0.00"),
		Entry("cents", int64(7), "$0.07"),
		Entry("hundreds", int64(12345), "$123.45"),
		Entry("thousands", int64(123456789), "$1,234,567.89"),
		Entry("negative", int64(-120000), "-$1,200.00"),
	)
})
