package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/sage/pkg/engine"
	"github.com/papercomputeco/sage/pkg/engine/ollama"
)

var _ = Describe("Engine", func() {
	var (
		server   *httptest.Server
		received ollama.GenerateRequest
		handler  http.HandlerFunc
	)

	JustBeforeEach(func() {
		server = httptest.NewServer(handler)
	})

	AfterEach(func() {
		server.Close()
	})

	newEngine := func() *ollama.Engine {
		e, err := ollama.New(ollama.Config{URL: server.URL + "/", Model: "llama2:7b-chat"}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	Context("when ollama answers", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.URL.Path).To(Equal("/api/generate"))
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(ollama.GenerateResponse{
					Model:    "llama2:7b-chat",
					Response: " I'm here for you.",
					Done:     true,
				})
			}
		})

		It("returns the continuation", func() {
			out, err := newEngine().Generate(context.Background(), "sys\nUser: hi\nSage:", engine.DefaultParams())
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(" I'm here for you."))
		})

		It("sends a raw, non-streaming request with the generation options", func() {
			_, err := newEngine().Generate(context.Background(), "PROMPT", engine.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			Expect(received.Model).To(Equal("llama2:7b-chat"))
			Expect(received.Prompt).To(Equal("PROMPT"))
			Expect(received.Raw).To(BeTrue())
			Expect(received.Stream).To(BeFalse())
			Expect(received.Options).NotTo(BeNil())
			Expect(*received.Options.NumPredict).To(Equal(150))
			Expect(*received.Options.Temperature).To(BeNumerically("~", 0.4))
			Expect(*received.Options.TopP).To(BeNumerically("~", 0.9))
			Expect(*received.Options.RepeatPenalty).To(BeNumerically("~", 1.1))
			Expect(received.Options.Stop).To(ConsistOf("\nUser:"))
		})
	})

	Context("when ollama returns an error status", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"model 'llama2:7b-chat' not found"}`))
			}
		})

		It("classifies the failure as unavailable", func() {
			_, err := newEngine().Generate(context.Background(), "p", engine.DefaultParams())
			Expect(err).To(MatchError(engine.ErrUnavailable))
			Expect(err.Error()).To(ContainSubstring("not found"))
		})
	})

	Context("when ollama returns garbage", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			}
		})

		It("classifies the failure as unavailable", func() {
			_, err := newEngine().Generate(context.Background(), "p", engine.DefaultParams())
			Expect(err).To(MatchError(engine.ErrUnavailable))
		})
	})

	Context("when ollama is too slow", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}
		})

		It("classifies the failure as a timeout", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			_, err := newEngine().Generate(ctx, "p", engine.DefaultParams())
			Expect(err).To(MatchError(engine.ErrTimeout))
		})
	})

	It("rejects an unparseable url", func() {
		_, err := ollama.New(ollama.Config{URL: "http://[::1"}, zap.NewNop())
		Expect(err).To(HaveOccurred())
	})

	It("falls back to the default url and model", func() {
		_, err := ollama.New(ollama.Config{}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
	})
})
