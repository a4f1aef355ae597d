package worker_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		ctx      context.Context
		consumer *mockConsumer
		procErr  error
		w        *worker.Worker
	)

	message := func(attempt int) queue.Message {
		return queue.Message{
			ID:       "1-0",
			TaskType: queue.TaskTypeExecuteAction,
			ActionID: ptr(int64(42)),
			Attempt:  attempt,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		procErr = nil
		w = worker.New(consumer, processorFunc(func(context.Context, queue.Message) error {
			return procErr
		}), worker.Config{MaxAttempts: 3})
	})

	It("acks a processed message", func() {
		Expect(w.ProcessMessage(ctx, message(1))).To(Succeed())
		Expect(consumer.ackedIDs()).To(ConsistOf("1-0"))
		Expect(consumer.requeued).To(BeEmpty())
	})

	It("requeues a failure while attempts remain", func() {
		procErr = errors.New("db down")

		Expect(w.ProcessMessage(ctx, message(2))).NotTo(Succeed())
		Expect(consumer.requeued).To(ConsistOf("1-0"))
		Expect(consumer.dlq).To(BeEmpty())
		Expect(consumer.ackedIDs()).To(BeEmpty())
	})

	It("dead-letters a failure on the last attempt", func() {
		procErr = errors.New("db down")

		Expect(w.ProcessMessage(ctx, message(3))).NotTo(Succeed())
		Expect(consumer.dlq).To(ConsistOf("1-0"))
		Expect(consumer.requeued).To(BeEmpty())
	})

	It("always requeues retry-later failures", func() {
		procErr = fmt.Errorf("%w: gmail 503", worker.ErrRetryLater)

		Expect(w.ProcessMessage(ctx, message(7))).NotTo(Succeed())
		Expect(consumer.requeued).To(ConsistOf("1-0"))
		Expect(consumer.dlq).To(BeEmpty())
	})

	It("recovers from a panicking processor", func() {
		w = worker.New(consumer, processorFunc(func(context.Context, queue.Message) error {
			panic("nil pointer")
		}), worker.Config{MaxAttempts: 3})

		err := w.ProcessMessage(ctx, message(1))
		Expect(err).To(MatchError(ContainSubstring("panic: nil pointer")))
		Expect(consumer.requeued).To(ConsistOf("1-0"))
	})

	It("processes batches until stopped", func() {
		consumer.batches = [][]queue.Message{{message(1)}}
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- w.Run(runCtx) }()

		Eventually(consumer.ackedIDs).Should(ConsistOf("1-0"))
		w.Stop()
		Eventually(done).Should(Receive(BeNil()))
	})
})
