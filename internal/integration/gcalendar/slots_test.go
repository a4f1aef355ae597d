package gcalendar_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
)

var _ = Describe("FreeSlots", func() {
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }
	window := gcalendar.Interval{Start: at(9, 0), End: at(17, 0)}

	It("returns the whole window when nothing is booked", func() {
		Expect(gcalendar.FreeSlots(nil, window, 30*time.Minute)).To(Equal([]gcalendar.Interval{window}))
	})

	It("merges overlapping and unordered busy blocks", func() {
		busy := []gcalendar.Interval{
			{Start: at(13, 0), End: at(14, 0)},
			{Start: at(9, 30), End: at(11, 0)},
			{Start: at(10, 30), End: at(11, 30)},
		}
		Expect(gcalendar.FreeSlots(busy, window, 30*time.Minute)).To(Equal([]gcalendar.Interval{
			{Start: at(9, 0), End: at(9, 30)},
			{Start: at(11, 30), End: at(13, 0)},
			{Start: at(14, 0), End: at(17, 0)},
		}))
	})

	It("drops gaps shorter than the requested length", func() {
		busy := []gcalendar.Interval{
			{Start: at(9, 15), End: at(16, 0)},
		}
		Expect(gcalendar.FreeSlots(busy, window, time.Hour)).To(Equal([]gcalendar.Interval{
			{Start: at(16, 0), End: at(17, 0)},
		}))
	})

	It("clips busy blocks that overhang the window", func() {
		busy := []gcalendar.Interval{
			{Start: at(7, 0), End: at(10, 0)},
			{Start: at(16, 0), End: at(19, 0)},
		}
		Expect(gcalendar.FreeSlots(busy, window, 0)).To(Equal([]gcalendar.Interval{
			{Start: at(10, 0), End: at(16, 0)},
		}))
	})

	It("returns nothing when fully booked", func() {
		busy := []gcalendar.Interval{{Start: at(8, 0), End: at(18, 0)}}
		Expect(gcalendar.FreeSlots(busy, window, 0)).To(BeEmpty())
	})
})
