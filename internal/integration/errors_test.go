package integration_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
)

var _ = Describe("APIError", func() {
	DescribeTable("IsRetryable",
		func(err error, expected bool) {
			Expect(integration.IsRetryable(err)).To(Equal(expected))
		},
		Entry("nil", nil, false),
		Entry("rate limited", &integration.APIError{StatusCode: 429}, true),
		Entry("server error", &integration.APIError{StatusCode: 503}, true),
		Entry("bad request", &integration.APIError{StatusCode: 400}, false),
		Entry("wrapped server error", fmt.Errorf("sending: %w", &integration.APIError{StatusCode: 500}), true),
		Entry("network error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true),
		Entry("deadline", context.DeadlineExceeded, true),
		Entry("cancelled", context.Canceled, false),
		Entry("plain error", errors.New("invalid payload"), false),
	)

	It("truncates long bodies", func() {
		resp := &http.Response{
			StatusCode: 500,
			Body:       io.NopCloser(strings.NewReader(strings.Repeat("x", 2000))),
		}
		err := integration.NewAPIError("gmail", resp)
		Expect(err.Body).To(HaveLen(503))
		Expect(err.Error()).To(HavePrefix("gmail API error (status 500)"))
	})

	It("matches status codes through wrapping", func() {
		err := fmt.Errorf("creating event: %w", &integration.APIError{StatusCode: 409})
		Expect(integration.IsStatus(err, 409)).To(BeTrue())
		Expect(integration.IsStatus(err, 404)).To(BeFalse())
	})
})
