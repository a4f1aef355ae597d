package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/telegram"
)

var _ = Describe("Telegram", func() {
	Describe("ParseUpdate", func() {
		It("parses text messages", func() {
			u, err := telegram.ParseUpdate([]byte(`{"update_id":1,"message":{"message_id":5,"from":{"id":9,"first_name":"Nic"},"chat":{"id":-100},"text":"hi"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ChatID()).To(Equal("-100"))
			Expect(u.SenderName()).To(Equal("Nic"))
			Expect(u.Message.Text).To(Equal("hi"))
		})

		It("parses callback queries", func() {
			u, err := telegram.ParseUpdate([]byte(`{"update_id":2,"callback_query":{"id":"cb","from":{"id":9,"username":"nic"},"message":{"message_id":6,"chat":{"id":42}},"data":"confirm:77"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ChatID()).To(Equal("42"))
			Expect(u.SenderName()).To(Equal("nic"))
		})

		It("rejects updates it cannot act on", func() {
			_, err := telegram.ParseUpdate([]byte(`{"update_id":3,"edited_message":{}}`))
			Expect(err).To(HaveOccurred())
		})
	})

	DescribeTable("ParseCallbackData",
		func(data, verb string, id int64, ok bool) {
			v, got, err := telegram.ParseCallbackData(data)
			if !ok {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(verb))
			Expect(got).To(Equal(id))
		},
		Entry("confirm", "confirm:12", "confirm", int64(12), true),
		Entry("reject", "reject:99", "reject", int64(99), true),
		Entry("unknown verb", "retry:1", "", int64(0), false),
		Entry("bad id", "confirm:abc", "", int64(0), false),
		Entry("no separator", "confirm", "", int64(0), false),
	)

	It("round-trips the confirm keyboard", func() {
		kb := telegram.ConfirmKeyboard(314)
		Expect(kb).To(HaveLen(1))
		verb, id, err := telegram.ParseCallbackData(kb[0][1].CallbackData)
		Expect(err).NotTo(HaveOccurred())
		Expect(verb).To(Equal(telegram.CallbackReject))
		Expect(id).To(Equal(int64(314)))
	})

	Describe("SplitMessage", func() {
		It("keeps short messages whole", func() {
			Expect(telegram.SplitMessage("hello", 10)).To(Equal([]string{"hello"}))
		})

		It("splits on newlines", func() {
			Expect(telegram.SplitMessage("aaaa\nbbbb\ncccc", 10)).To(Equal([]string{"aaaa\nbbbb", "cccc"}))
		})

		It("never splits a multi-byte rune", func() {
			chunks := telegram.SplitMessage(strings.Repeat("é", 6), 5)
			for _, c := range chunks {
				Expect(len(c)).To(BeNumerically("<=", 5))
				Expect(strings.ToValidUTF8(c, "?")).To(Equal(c))
			}
			Expect(strings.Join(chunks, "")).To(Equal(strings.Repeat("é", 6)))
		})
	})

	Describe("client", func() {
		var (
			server *httptest.Server
			mu     sync.Mutex
			calls  []map[string]any
		)

		BeforeEach(func() {
			calls = nil
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch {
				case strings.HasSuffix(r.URL.Path, "/sendMessage"):
					var body map[string]any
					_ = json.NewDecoder(r.Body).Decode(&body)
					mu.Lock()
					calls = append(calls, body)
					mu.Unlock()
					_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
				case strings.HasSuffix(r.URL.Path, "/getFile"):
					_, _ = w.Write([]byte(`{"ok":true,"result":{"file_path":"voice/file_1.oga","file_size":4}}`))
				case r.URL.Path == "/file/bottok/voice/file_1.oga":
					_, _ = w.Write([]byte("OggS"))
				default:
					http.NotFound(w, r)
				}
			}))
		})

		AfterEach(func() {
			server.Close()
		})

		It("attaches the keyboard to the last chunk only", func() {
			c := telegram.New("tok", telegram.WithBaseURL(server.URL), telegram.WithHTTPClient(server.Client()))
			text := strings.Repeat("a", 4000) + "\n" + strings.Repeat("b", 200)
			Expect(c.SendMessage(context.Background(), "42", text, telegram.ConfirmKeyboard(1))).To(Succeed())

			Expect(calls).To(HaveLen(2))
			Expect(calls[0]).NotTo(HaveKey("reply_markup"))
			Expect(calls[1]).To(HaveKey("reply_markup"))
		})

		It("downloads voice files", func() {
			c := telegram.New("tok", telegram.WithBaseURL(server.URL), telegram.WithHTTPClient(server.Client()))
			name, data, err := c.DownloadFile(context.Background(), "f1")
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("file_1.oga"))
			Expect(string(data)).To(Equal("OggS"))
		})
	})
})
