package service_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

var _ = Describe("Financial quarters", func() {
	brisbane, _ := time.LoadLocation("Australia/Brisbane")

	DescribeTable("QuarterFor",
		func(date time.Time, label string) {
			Expect(service.QuarterFor(date).Label()).To(Equal(label))
		},
		Entry("first day of the financial year", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "FY26 Q1"),
		Entry("end of September", time.Date(2025, 9, 30, 23, 0, 0, 0, time.UTC), "FY26 Q1"),
		Entry("October", time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC), "FY26 Q2"),
		Entry("January", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), "FY26 Q3"),
		Entry("June", time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), "FY26 Q4"),
		Entry("turn of the century", time.Date(2099, 8, 1, 0, 0, 0, 0, time.UTC), "FY00 Q1"),
	)

	It("wraps across financial years", func() {
		q := service.Quarter{FY: 2026, Q: 1}
		Expect(q.Previous()).To(Equal(service.Quarter{FY: 2025, Q: 4}))
		Expect(q.Previous().Next()).To(Equal(q))
		Expect(service.Quarter{FY: 2026, Q: 4}.Next()).To(Equal(service.Quarter{FY: 2027, Q: 1}))
	})

	It("offsets by any number of quarters", func() {
		q := service.Quarter{FY: 2026, Q: 2}
		Expect(q.Offset(0)).To(Equal(q))
		Expect(q.Offset(-2)).To(Equal(service.Quarter{FY: 2025, Q: 4}))
		Expect(q.Offset(7)).To(Equal(service.Quarter{FY: 2028, Q: 1}))
	})

	It("computes quarter boundaries in the given location", func() {
		q := service.Quarter{FY: 2026, Q: 3}
		Expect(q.Start(brisbane)).To(Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, brisbane)))
		Expect(q.End(brisbane)).To(Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, brisbane)))
		Expect(service.Quarter{FY: 2026, Q: 1}.Start(brisbane)).To(Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, brisbane)))
	})

	Describe("PeriodRange", func() {
		now := time.Date(2025, 11, 14, 10, 0, 0, 0, brisbane)

		It("defaults to the current month", func() {
			r, err := service.PeriodRange("", now)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Label).To(Equal("November 2025"))
			Expect(r.From).To(Equal(time.Date(2025, 11, 1, 0, 0, 0, 0, brisbane)))
			Expect(r.To).To(Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, brisbane)))
		})

		It("resolves the quarter", func() {
			r, err := service.PeriodRange("Quarter", now)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Label).To(Equal("FY26 Q2"))
			Expect(r.From).To(Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, brisbane)))
		})

		It("resolves the financial year", func() {
			r, err := service.PeriodRange("fy", now)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Label).To(Equal("FY26"))
			Expect(r.From).To(Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, brisbane)))
			Expect(r.To).To(Equal(time.Date(2026, 7, 1, 0, 0, 0, 0, brisbane)))
		})

		It("rejects unknown periods", func() {
			_, err := service.PeriodRange("decade", now)
			Expect(errors.Is(err, service.ErrInvalidInput)).To(BeTrue())
		})
	})
})
