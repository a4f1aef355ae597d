package logger_test

import (
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
)

var _ = Describe("Truncate", func() {
	DescribeTable("shortens long strings",
		func(in string, max int, want string) {
			Expect(logger.Truncate(in, max)).To(Equal(want))
		},
		Entry("short enough", "hello", 5, "hello"),
		Entry("ascii", "hello world", 5, "hello..."),
		Entry("multi-byte rune at the cut", "café au lait", 4, "caf..."),
	)

	It("never splits a rune", func() {
		out := logger.Truncate("🎙🎙🎙", 5)
		Expect(utf8.ValidString(out)).To(BeTrue())
		Expect(out).To(Equal("🎙..."))
	})
})
