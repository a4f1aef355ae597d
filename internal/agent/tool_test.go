package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
)

type echoParams struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

var _ = Describe("Registry", func() {
	var (
		ctx      context.Context
		registry *agent.Registry
	)

	register := func(name string, kind agent.ToolKind, h agent.HandlerFunc) {
		registry.Register(agent.Tool{
			Definition: llm.Tool{Name: name, Description: name},
			Kind:       kind,
			Handler:    h,
		})
	}

	BeforeEach(func() {
		ctx = context.Background()
		registry = agent.NewRegistry()
	})

	It("keeps definitions in registration order and names sorted", func() {
		register("zeta", agent.ToolRead, nil)
		register("alpha", agent.ToolWrite, nil)
		register("zeta", agent.ToolRead, nil)

		defs := registry.Definitions()
		Expect(defs).To(HaveLen(2))
		Expect(defs[0].Name).To(Equal("zeta"))
		Expect(defs[1].Name).To(Equal("alpha"))
		Expect(registry.Names()).To(Equal([]string{"alpha", "zeta"}))
	})

	It("classifies write tools", func() {
		register("reader", agent.ToolRead, nil)
		register("writer", agent.ToolWrite, nil)

		Expect(registry.IsWrite("writer")).To(BeTrue())
		Expect(registry.IsWrite("reader")).To(BeFalse())
		Expect(registry.IsWrite("missing")).To(BeFalse())
	})

	Describe("Execute", func() {
		It("decodes typed arguments and encodes the result", func() {
			register("echo", agent.ToolRead, agent.Typed(func(_ context.Context, p echoParams) (any, error) {
				return map[string]any{"text": strings.Repeat(p.Text, p.Count)}, nil
			}))

			out := registry.Execute(ctx, llm.ToolCall{ID: "1", Name: "echo", Arguments: `{"text":"ab","count":2}`})
			Expect(out).To(MatchJSON(`{"text":"abab"}`))
		})

		It("reports invalid arguments as an error result", func() {
			register("echo", agent.ToolRead, agent.Typed(func(_ context.Context, p echoParams) (any, error) {
				return p, nil
			}))

			out := registry.Execute(ctx, llm.ToolCall{Name: "echo", Arguments: `{"count":"many"}`})
			Expect(out).To(HavePrefix(`{"error":`))
		})

		It("reports unknown tools", func() {
			out := registry.Execute(ctx, llm.ToolCall{Name: "ghost"})
			Expect(out).To(MatchJSON(`{"error":"unknown tool: ghost"}`))
		})

		It("reports handler errors", func() {
			register("fails", agent.ToolRead, func(context.Context, string) (any, error) {
				return nil, errors.New(`quote " inside`)
			})

			out := registry.Execute(ctx, llm.ToolCall{Name: "fails"})
			Expect(out).To(MatchJSON(`{"error":"quote \" inside"}`))
		})

		It("recovers from a panicking handler", func() {
			register("panics", agent.ToolRead, func(context.Context, string) (any, error) {
				panic("nil map")
			})

			out := registry.Execute(ctx, llm.ToolCall{Name: "panics"})
			Expect(out).To(MatchJSON(`{"error":"tool panics failed unexpectedly"}`))
		})

		It("truncates very large results into valid JSON", func() {
			register("big", agent.ToolRead, func(context.Context, string) (any, error) {
				return map[string]string{"body": strings.Repeat("x", 30000)}, nil
			})

			out := registry.Execute(ctx, llm.ToolCall{Name: "big"})
			Expect(len(out)).To(BeNumerically("<=", 24000))
			Expect(json.Valid([]byte(out))).To(BeTrue())

			var partial struct {
				Truncated bool   `json:"truncated"`
				Bytes     int    `json:"original_bytes"`
				Partial   string `json:"partial"`
			}
			Expect(json.Unmarshal([]byte(out), &partial)).To(Succeed())
			Expect(partial.Truncated).To(BeTrue())
			Expect(partial.Bytes).To(Equal(30011))
			Expect(partial.Partial).To(HavePrefix(`{"body":"xxx`))
		})

		It("keeps multi-byte text intact when truncating", func() {
			register("runes", agent.ToolRead, func(context.Context, string) (any, error) {
				return strings.Repeat("é<", 20000), nil
			})

			out := registry.Execute(ctx, llm.ToolCall{Name: "runes"})
			Expect(len(out)).To(BeNumerically("<=", 24000))
			Expect(json.Valid([]byte(out))).To(BeTrue())
			Expect(utf8.ValidString(out)).To(BeTrue())
		})

		Context("with a tool that requires confirmation", func() {
			registerConfirm := func(h agent.HandlerFunc) {
				registry.Register(agent.Tool{
					Definition:           llm.Tool{Name: "send"},
					Kind:                 agent.ToolWrite,
					RequiresConfirmation: true,
					Handler:              h,
				})
			}

			It("passes a staged action through", func() {
				registerConfirm(func(context.Context, string) (any, error) {
					return agent.StagedResult(7, "A7"), nil
				})

				out := registry.Execute(ctx, llm.ToolCall{Name: "send"})
				Expect(out).To(ContainSubstring(`"status":"awaiting_confirmation"`))
				Expect(out).To(ContainSubstring(`"action_id":7`))
			})

			It("rejects a result that skipped staging", func() {
				registerConfirm(func(context.Context, string) (any, error) {
					return map[string]string{"status": "sent"}, nil
				})

				out := registry.Execute(ctx, llm.ToolCall{Name: "send"})
				Expect(out).To(MatchJSON(`{"error":"tool send did not stage an action for confirmation"}`))
			})
		})
	})
})
