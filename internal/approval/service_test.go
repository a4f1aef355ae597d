package approval_test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		clk      *clock
		actions  *memActionStore
		producer *mockProducer
		status   *mockStatus
		reminder *mockExecutor
		svc      approval.Service
		cfg      approval.Config
	)

	reminderPayload := func() approval.ReminderPayload {
		return approval.ReminderPayload{
			Message: "Call Jess about the grant",
			DueAt:   time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC),
			Channel: model.ChannelTelegram,
			ChatID:  "42",
		}
	}

	stage := func() *model.PendingAction {
		a, err := svc.Stage(ctx, approval.StageInput{
			Type:           model.ActionSetReminder,
			Payload:        reminderPayload(),
			ConversationID: ptr(int64(7)),
		})
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	BeforeEach(func() {
		ctx = context.Background()
		clk = &clock{t: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
		actions = newMemActionStore(clk.Now)
		producer = &mockProducer{}
		status = &mockStatus{}
		reminder = &mockExecutor{actionType: model.ActionSetReminder}
		cfg = approval.Config{
			Expiry:      30 * time.Minute,
			MaxAttempts: 3,
			Lease:       10 * time.Minute,
			StaleAfter:  2 * time.Minute,
		}
		svc = approval.NewService(actions, approval.NewRegistry(reminder), producer, status, cfg, time.UTC, clk.Now)
	})

	Describe("Stage", func() {
		It("persists a pending action with an expiry and a description", func() {
			a := stage()
			Expect(a.Status).To(Equal(model.ActionStatusPending))
			Expect(a.ExpiresAt).To(Equal(clk.Now().Add(30 * time.Minute)))
			Expect(a.MaxAttempts).To(Equal(3))
			Expect(a.IdempotencyKey).NotTo(Equal(uuid.Nil))
			Expect(a.Description).To(ContainSubstring("Call Jess about the grant"))
			Expect(a.RequestedBy).To(Equal("agent"))
			Expect(status.statuses()).To(Equal([]string{"pending"}))
		})

		It("returns the existing row for a repeated idempotency key", func() {
			key := uuid.New()
			in := approval.StageInput{Key: key, Type: model.ActionSetReminder, Payload: reminderPayload()}
			first, err := svc.Stage(ctx, in)
			Expect(err).NotTo(HaveOccurred())
			second, err := svc.Stage(ctx, in)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
			Expect(actions.rows).To(HaveLen(1))
		})

		It("rejects invalid payloads", func() {
			_, err := svc.Stage(ctx, approval.StageInput{
				Type:    model.ActionSetReminder,
				Payload: approval.ReminderPayload{Message: ""},
			})
			Expect(err).To(MatchError(approval.ErrInvalidPayload))
			Expect(actions.rows).To(BeEmpty())
		})

		It("rejects unknown types", func() {
			_, err := svc.Stage(ctx, approval.StageInput{Type: "wire_money", Payload: map[string]string{}})
			Expect(err).To(MatchError(approval.ErrUnknownActionType))
		})

		It("rejects types whose integration is not configured", func() {
			_, err := svc.Stage(ctx, approval.StageInput{
				Type: model.ActionSendEmail,
				Payload: approval.EmailPayload{
					To: []string{"a@example.org"}, Subject: "Hi", Body: "Hello",
				},
			})
			Expect(err).To(MatchError(approval.ErrExecutorNotEnabled))
		})
	})

	Describe("Confirm", func() {
		It("confirms, enqueues an execute task and publishes the status", func() {
			a := stage()
			confirmed, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())
			Expect(confirmed.Status).To(Equal(model.ActionStatusConfirmed))
			Expect(*confirmed.DecidedBy).To(Equal("ben"))
			Expect(producer.tasks).To(ConsistOf(queue.Task{TaskType: queue.TaskTypeExecuteAction, ActionID: a.ID}))
			Expect(status.statuses()).To(Equal([]string{"pending", "confirmed"}))
		})

		It("fails with ErrActionExpired once the expiry has passed", func() {
			a := stage()
			clk.Advance(31 * time.Minute)
			_, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).To(MatchError(approval.ErrActionExpired))
			Expect(producer.tasks).To(BeEmpty())
		})

		It("fails with ErrActionExpired for swept actions", func() {
			a := stage()
			clk.Advance(time.Hour)
			_, err := svc.ExpireOverdue(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Confirm(ctx, a.ID, "ben")
			Expect(err).To(MatchError(approval.ErrActionExpired))
		})

		It("refuses a second confirmation", func() {
			a := stage()
			_, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Confirm(ctx, a.ID, "ben")
			Expect(err).To(MatchError(approval.ErrActionNotPending))
			Expect(producer.tasks).To(HaveLen(1))
		})

		It("still confirms when the enqueue fails", func() {
			producer.enqueueFn = func(queue.Task) error { return errors.New("redis down") }
			a := stage()
			confirmed, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())
			Expect(confirmed.Status).To(Equal(model.ActionStatusConfirmed))
		})

		It("passes through not found", func() {
			_, err := svc.Confirm(ctx, 999, "ben")
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("Reject", func() {
		It("rejects a pending action", func() {
			a := stage()
			rejected, err := svc.Reject(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())
			Expect(rejected.Status).To(Equal(model.ActionStatusRejected))
		})

		It("cannot reject a confirmed action", func() {
			a := stage()
			_, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())
			current, err := svc.Reject(ctx, a.ID, "ben")
			Expect(err).To(MatchError(approval.ErrActionNotPending))
			Expect(current.Status).To(Equal(model.ActionStatusConfirmed))
		})
	})

	Describe("Execute", func() {
		var a *model.PendingAction

		BeforeEach(func() {
			a = stage()
			_, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())
		})

		It("runs the executor once and records the result", func() {
			res, err := svc.Execute(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(approval.OutcomeSucceeded))
			Expect(res.Action.Status).To(Equal(model.ActionStatusSucceeded))
			Expect(string(res.Action.Result)).To(MatchJSON(`{"ok":"yes"}`))
			Expect(reminder.calls).To(Equal(1))

			again, err := svc.Execute(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Outcome).To(Equal(approval.OutcomeSkipped))
			Expect(reminder.calls).To(Equal(1))
			Expect(status.statuses()).To(Equal([]string{"pending", "confirmed", "executing", "succeeded"}))
		})

		It("hands the decoded payload to the executor", func() {
			var got approval.Payload
			reminder.executeFn = func(_ context.Context, _ *model.PendingAction, p approval.Payload) (any, error) {
				got = p
				return nil, nil
			}
			_, err := svc.Execute(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeAssignableToTypeOf(approval.ReminderPayload{}))
			p := got.(approval.ReminderPayload)
			Expect(p.Message).To(Equal("Call Jess about the grant"))
			Expect(p.DueAt.Equal(reminderPayload().DueAt)).To(BeTrue())
		})

		It("releases retryable failures until attempts run out", func() {
			reminder.executeFn = func(context.Context, *model.PendingAction, approval.Payload) (any, error) {
				return nil, approval.NewRetryableError(errors.New("503 from upstream"))
			}

			for attempt := 1; attempt < 3; attempt++ {
				res, err := svc.Execute(ctx, a.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Outcome).To(Equal(approval.OutcomeRetry))
				Expect(res.Action.Status).To(Equal(model.ActionStatusConfirmed))
				Expect(res.Action.Attempts).To(Equal(attempt))
			}

			res, err := svc.Execute(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(approval.OutcomeFailed))
			Expect(res.Action.Status).To(Equal(model.ActionStatusFailed))
			Expect(*res.Action.LastError).To(ContainSubstring("503"))
			Expect(reminder.calls).To(Equal(3))
		})

		It("fails immediately on fatal errors", func() {
			reminder.executeFn = func(context.Context, *model.PendingAction, approval.Payload) (any, error) {
				return nil, errors.New("bad request")
			}
			res, err := svc.Execute(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(approval.OutcomeFailed))
			Expect(res.Err).To(MatchError("bad request"))
			Expect(actions.get(a.ID).Attempts).To(Equal(1))
		})

		It("skips actions that are no longer confirmed", func() {
			actions.claimFn = func(int64) error { return store.ErrConflict }
			res, err := svc.Execute(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(approval.OutcomeSkipped))
			Expect(reminder.calls).To(BeZero())
		})

		It("surfaces store errors so the message is retried", func() {
			actions.claimFn = func(int64) error { return errors.New("connection reset") }
			_, err := svc.Execute(ctx, a.ID)
			Expect(err).To(MatchError(ContainSubstring("claiming action")))
		})
	})

	Describe("sweepers", func() {
		It("expires only overdue pending actions", func() {
			old := stage()
			clk.Advance(20 * time.Minute)
			fresh := stage()
			clk.Advance(15 * time.Minute)

			expired, err := svc.ExpireOverdue(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(expired).To(HaveLen(1))
			Expect(expired[0].ID).To(Equal(old.ID))
			Expect(actions.get(fresh.ID).Status).To(Equal(model.ActionStatusPending))
		})

		It("fails actions stuck past the lease instead of re-running them", func() {
			a := stage()
			_, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())
			_, err = actions.Claim(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())

			clk.Advance(11 * time.Minute)
			stuck, err := svc.FailStuck(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(stuck).To(HaveLen(1))
			Expect(*stuck[0].LastError).To(ContainSubstring("outcome unknown"))
			Expect(reminder.calls).To(BeZero())
		})

		It("re-enqueues confirmed actions whose message went missing", func() {
			producer.enqueueFn = func(queue.Task) error { return errors.New("redis down") }
			a := stage()
			_, err := svc.Confirm(ctx, a.ID, "ben")
			Expect(err).NotTo(HaveOccurred())

			producer.enqueueFn = nil
			clk.Advance(3 * time.Minute)
			n, err := svc.RequeueStale(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(producer.tasks).To(ConsistOf(queue.Task{TaskType: queue.TaskTypeExecuteAction, ActionID: a.ID}))
		})
	})

	It("lists open actions per conversation", func() {
		stage()
		other, err := svc.Stage(ctx, approval.StageInput{Type: model.ActionSetReminder, Payload: reminderPayload()})
		Expect(err).NotTo(HaveOccurred())

		open, err := svc.ListOpen(ctx, ptr(int64(7)))
		Expect(err).NotTo(HaveOccurred())
		Expect(open).To(HaveLen(1))
		Expect(open[0].ID).NotTo(Equal(other.ID))

		counts, err := svc.Counts(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(counts[model.ActionStatusPending]).To(Equal(int64(2)))
	})
})
