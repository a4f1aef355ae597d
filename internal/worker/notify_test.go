package worker_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/worker"
)

var _ = Describe("TelegramNotifier", func() {
	var (
		ctx    context.Context
		client *mockTelegram
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockTelegram{}
	})

	It("sends to the reminder's chat", func() {
		n := worker.NewTelegramNotifier(client, "999")

		Expect(n.Notify(ctx, model.ChannelTelegram, "555", "hello")).To(Succeed())
		Expect(client.chats).To(Equal([]string{"555"}))
	})

	It("falls back to the default chat for other channels", func() {
		n := worker.NewTelegramNotifier(client, "999")

		Expect(n.Notify(ctx, model.ChannelWeb, "", "hello")).To(Succeed())
		Expect(client.chats).To(Equal([]string{"999"}))
	})

	It("refuses other channels without a default chat", func() {
		n := worker.NewTelegramNotifier(client, "")

		Expect(n.Notify(ctx, model.ChannelCLI, "", "hello")).To(MatchError(worker.ErrChannelUnsupported))
		Expect(client.chats).To(BeEmpty())
	})

	It("refuses when telegram is not configured", func() {
		n := worker.NewTelegramNotifier(nil, "999")

		Expect(n.Notify(ctx, model.ChannelTelegram, "555", "hello")).To(MatchError(worker.ErrChannelUnsupported))
	})
})

var _ = Describe("OutcomeMessage", func() {
	DescribeTable("renders the final state",
		func(status model.ActionStatus, lastError *string, expected string) {
			msg := worker.OutcomeMessage(&model.PendingAction{
				Ref:         "3K9ZQ",
				Description: "Send email",
				Status:      status,
				LastError:   lastError,
			})
			Expect(msg).To(ContainSubstring(expected))
		},
		Entry("succeeded", model.ActionStatusSucceeded, nil, "Done [3K9ZQ]: Send email"),
		Entry("expired", model.ActionStatusExpired, nil, "Nothing was done"),
		Entry("failed with reason", model.ActionStatusFailed, ptr("quota exceeded"), "Reason: quota exceeded"),
		Entry("failed without reason", model.ActionStatusFailed, nil, "Reason: unknown error"),
	)
})
