package worker_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/worker"
)

var _ = Describe("Processor", func() {
	var (
		ctx       context.Context
		approvals *mockApprovals
		reminders *mockReminders
		notifier  *mockNotifier
		convs     *mockConversations
		processor *worker.Processor
	)

	action := func(status model.ActionStatus, convID int64) *model.PendingAction {
		return &model.PendingAction{
			ID:             42,
			Ref:            "16",
			ConversationID: ptr(convID),
			Description:    "Send email to jess@example.org",
			Status:         status,
		}
	}

	executeMsg := queue.Message{ID: "1-0", TaskType: queue.TaskTypeExecuteAction, ActionID: ptr(int64(42)), Attempt: 1}
	reminderMsg := queue.Message{ID: "2-0", TaskType: queue.TaskTypeReminderDue, ReminderID: ptr(int64(9)), Attempt: 1}

	BeforeEach(func() {
		ctx = context.Background()
		approvals = &mockApprovals{}
		reminders = &mockReminders{rows: map[int64]*model.Reminder{}}
		notifier = &mockNotifier{}
		convs = &mockConversations{rows: map[int64]*model.Conversation{
			1: {ID: 1, Channel: model.ChannelTelegram, ExternalID: "555"},
			2: {ID: 2, Channel: model.ChannelWeb, ExternalID: "web-session"},
		}}
		processor = worker.NewProcessor(approvals, reminders, worker.NewOutcomeNotifier(convs, notifier), notifier)
	})

	Describe("execute_action", func() {
		It("tells the telegram chat when the action succeeded", func() {
			approvals.executeFn = func(int64) (approval.ExecuteResult, error) {
				return approval.ExecuteResult{Outcome: approval.OutcomeSucceeded, Action: action(model.ActionStatusSucceeded, 1)}, nil
			}

			Expect(processor.Process(ctx, executeMsg)).To(Succeed())
			Expect(approvals.executedAction).To(ConsistOf(int64(42)))
			Expect(notifier.sent).To(HaveLen(1))
			Expect(notifier.sent[0].ChatID).To(Equal("555"))
			Expect(notifier.sent[0].Text).To(ContainSubstring("Done [16]"))
		})

		It("reports failures with the reason", func() {
			a := action(model.ActionStatusFailed, 1)
			a.LastError = ptr("gmail 400: invalid recipient")
			approvals.executeFn = func(int64) (approval.ExecuteResult, error) {
				return approval.ExecuteResult{Outcome: approval.OutcomeFailed, Action: a, Err: errors.New("gmail 400")}, nil
			}

			Expect(processor.Process(ctx, executeMsg)).To(Succeed())
			Expect(notifier.sent[0].Text).To(ContainSubstring("Failed [16]"))
			Expect(notifier.sent[0].Text).To(ContainSubstring("invalid recipient"))
		})

		It("does not push to web conversations", func() {
			approvals.executeFn = func(int64) (approval.ExecuteResult, error) {
				return approval.ExecuteResult{Outcome: approval.OutcomeSucceeded, Action: action(model.ActionStatusSucceeded, 2)}, nil
			}

			Expect(processor.Process(ctx, executeMsg)).To(Succeed())
			Expect(notifier.sent).To(BeEmpty())
		})

		It("asks for a retry when the action was released", func() {
			approvals.executeFn = func(int64) (approval.ExecuteResult, error) {
				return approval.ExecuteResult{Outcome: approval.OutcomeRetry, Action: action(model.ActionStatusConfirmed, 1), Err: errors.New("503")}, nil
			}

			err := processor.Process(ctx, executeMsg)
			Expect(err).To(MatchError(worker.ErrRetryLater))
			Expect(notifier.sent).To(BeEmpty())
		})

		It("drops a message for an action that cannot be claimed", func() {
			approvals.executeFn = func(int64) (approval.ExecuteResult, error) {
				return approval.ExecuteResult{Outcome: approval.OutcomeSkipped}, nil
			}

			Expect(processor.Process(ctx, executeMsg)).To(Succeed())
			Expect(notifier.sent).To(BeEmpty())
		})

		It("returns store errors for the worker to retry", func() {
			approvals.executeFn = func(int64) (approval.ExecuteResult, error) {
				return approval.ExecuteResult{}, errors.New("connection refused")
			}

			err := processor.Process(ctx, executeMsg)
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
			Expect(errors.Is(err, worker.ErrRetryLater)).To(BeFalse())
		})
	})

	Describe("reminder_due", func() {
		BeforeEach(func() {
			reminders.rows[9] = &model.Reminder{
				ID:      9,
				Message: "Call Jess",
				Channel: model.ChannelTelegram,
				ChatID:  "555",
				Status:  model.ReminderSending,
			}
		})

		It("delivers and marks the reminder sent", func() {
			Expect(processor.Process(ctx, reminderMsg)).To(Succeed())
			Expect(notifier.sent).To(HaveLen(1))
			Expect(notifier.sent[0].Text).To(ContainSubstring("Call Jess"))
			Expect(reminders.sent).To(ConsistOf(int64(9)))
		})

		It("releases the reminder when delivery fails", func() {
			notifier.err = errors.New("telegram 502")

			Expect(processor.Process(ctx, reminderMsg)).To(Succeed())
			Expect(reminders.released).To(ConsistOf(int64(9)))
			Expect(reminders.sent).To(BeEmpty())
		})

		It("skips reminders that are no longer sending", func() {
			reminders.rows[9].Status = model.ReminderCancelled

			Expect(processor.Process(ctx, reminderMsg)).To(Succeed())
			Expect(notifier.sent).To(BeEmpty())
		})

		It("drops unknown reminders", func() {
			delete(reminders.rows, 9)

			Expect(processor.Process(ctx, reminderMsg)).To(Succeed())
		})
	})
})
