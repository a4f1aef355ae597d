package handler_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/telegram"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

var _ = Describe("TelegramHandler", func() {
	var (
		router      *gin.Engine
		ag          *mockAgent
		approvals   *mockApprovals
		tg          *mockTelegram
		transcriber *mockTranscriber
	)

	post := func(secret, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/telegram/"+secret, bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	build := func(tr llm.Transcriber) {
		cfg := config.TelegramConfig{WebhookSecret: "s3cret", AllowedChats: []string{"42"}}
		h := handler.NewTelegramHandler(ag, approvals, tg, tr, cfg)
		handler.RunInline(h)
		router = gin.New()
		router.POST("/webhooks/telegram/:secret", h.Webhook)
	}

	BeforeEach(func() {
		ag = &mockAgent{}
		approvals = &mockApprovals{}
		tg = &mockTelegram{}
		transcriber = &mockTranscriber{text: "remind me to call Sam"}
		build(nil)
	})

	const textUpdate = `{"update_id":1,"message":{"message_id":10,"from":{"id":7,"first_name":"Ben"},"chat":{"id":42},"text":"what's on today?"}}`

	It("hides the endpoint behind the secret", func() {
		w := post("wrong", textUpdate)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(ag.inputs).To(BeEmpty())
	})

	It("ignores chats that are not allowed", func() {
		w := post("s3cret", `{"update_id":1,"message":{"message_id":1,"chat":{"id":99},"text":"hi"}}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(ag.inputs).To(BeEmpty())
		Expect(tg.sent).To(BeEmpty())
	})

	It("acknowledges updates it cannot parse", func() {
		w := post("s3cret", `{"update_id":1}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(ag.inputs).To(BeEmpty())
	})

	It("answers a text message in the same chat", func() {
		ag.fn = func(_ context.Context, in agent.Input) (*agent.Output, error) {
			return &agent.Output{Reply: "Two meetings."}, nil
		}

		w := post("s3cret", textUpdate)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(ag.inputs).To(HaveLen(1))
		Expect(ag.inputs[0].Channel).To(Equal(model.ChannelTelegram))
		Expect(ag.inputs[0].ExternalID).To(Equal("42"))
		Expect(ag.inputs[0].UserName).To(Equal("Ben"))
		Expect(tg.sent).To(Equal([]sentMessage{{chatID: "42", text: "Two meetings."}}))
	})

	It("attaches confirm buttons to a single staged action", func() {
		ag.fn = func(context.Context, agent.Input) (*agent.Output, error) {
			return &agent.Output{Reply: "Drafted.", Staged: []approval.Summary{{ID: 55, Ref: "AAAAA"}}}, nil
		}

		post("s3cret", textUpdate)

		Expect(tg.sent).To(HaveLen(1))
		Expect(tg.sent[0].keyboard).To(Equal(telegram.ConfirmKeyboard(55)))
	})

	It("sends one message per action when several are staged", func() {
		ag.fn = func(context.Context, agent.Input) (*agent.Output, error) {
			return &agent.Output{Reply: "Both staged.", Staged: []approval.Summary{
				{ID: 1, Ref: "AAAAA", Description: "Email Sam"},
				{ID: 2, Ref: "BBBBB", Description: "Book a call"},
			}}, nil
		}

		post("s3cret", textUpdate)

		Expect(tg.sent).To(HaveLen(3))
		Expect(tg.sent[0].keyboard).To(BeNil())
		Expect(tg.sent[1].text).To(Equal("[AAAAA] Email Sam"))
		Expect(tg.sent[2].keyboard).To(Equal(telegram.ConfirmKeyboard(2)))
	})

	It("apologises when the agent fails", func() {
		ag.fn = func(context.Context, agent.Input) (*agent.Output, error) {
			return nil, errors.New("boom")
		}

		post("s3cret", textUpdate)

		Expect(tg.sent).To(HaveLen(1))
		Expect(tg.sent[0].text).To(ContainSubstring("something went wrong"))
	})

	Describe("voice notes", func() {
		const voiceUpdate = `{"update_id":2,"message":{"message_id":11,"chat":{"id":42},"voice":{"file_id":"f1","duration":3}}}`

		It("transcribes and echoes what was heard", func() {
			build(transcriber)
			tg.fileData = []byte("OggS")

			post("s3cret", voiceUpdate)

			Expect(transcriber.contentType).To(Equal("audio/ogg"))
			Expect(transcriber.audio).To(Equal([]byte("OggS")))
			Expect(ag.inputs[0].Text).To(Equal("remind me to call Sam"))
			Expect(tg.sent[0].text).To(HavePrefix("🎙 \"remind me to call Sam\""))
		})

		It("asks for text when transcription is not configured", func() {
			post("s3cret", voiceUpdate)

			Expect(ag.inputs).To(BeEmpty())
			Expect(tg.sent).To(HaveLen(1))
			Expect(tg.sent[0].text).To(ContainSubstring("type it instead"))
		})
	})

	Describe("callbacks", func() {
		callback := func(data string) string {
			return `{"update_id":3,"callback_query":{"id":"cb1","from":{"id":7,"first_name":"Ben"},"message":{"message_id":12,"chat":{"id":42}},"data":"` + data + `"}}`
		}

		It("confirms the action", func() {
			approvals.confirmFn = func(_ context.Context, id int64, _ string) (*model.PendingAction, error) {
				return &model.PendingAction{ID: id, Ref: "AAAAA", Description: "Email Sam"}, nil
			}

			post("s3cret", callback("confirm:55"))

			Expect(approvals.decidedBy).To(Equal([]string{"Ben"}))
			Expect(tg.answered).To(Equal([]string{"Confirmed"}))
			Expect(tg.sent[0].text).To(Equal("Confirmed [AAAAA]: Email Sam. Running it now."))
		})

		It("rejects the action", func() {
			approvals.rejectFn = func(_ context.Context, id int64, _ string) (*model.PendingAction, error) {
				return &model.PendingAction{ID: id, Ref: "AAAAA", Description: "Email Sam"}, nil
			}

			post("s3cret", callback("reject:55"))

			Expect(tg.answered).To(Equal([]string{"Cancelled"}))
			Expect(tg.sent[0].text).To(ContainSubstring("Nothing was done"))
		})

		It("tells the user when the action already expired", func() {
			approvals.confirmFn = func(context.Context, int64, string) (*model.PendingAction, error) {
				return nil, approval.ErrActionExpired
			}

			post("s3cret", callback("confirm:55"))

			Expect(tg.answered).To(Equal([]string{"That action has expired"}))
			Expect(tg.sent).To(BeEmpty())
		})

		It("answers unknown buttons without deciding anything", func() {
			post("s3cret", callback("launch:55"))

			Expect(approvals.decidedBy).To(BeEmpty())
			Expect(tg.answered).To(Equal([]string{"Unknown button"}))
		})
	})
})
