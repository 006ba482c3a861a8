package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"patent-checker/internal/cache"
	"patent-checker/internal/reference"
)

var (
	testPatent = reference.Patent{
		ID:                1,
		PublicationNumber: "US123",
		Title:             "Widget assembly",
		Abstract:          "a widget",
		Description:       "describes widgets",
		Claims: []reference.Claim{
			{Number: "00001", Text: "A widget comprising a gear."},
			{Number: "00002", Text: "The widget of claim 1 with a spring."},
		},
	}
	testProduct = reference.Product{Name: "Widget", Description: "A gear-driven widget"}
	testCompany = reference.Company{Name: "Acme", Products: []reference.Product{testProduct}}
)

type capturedRequest struct {
	Path string
	Auth string
	Body map[string]any
}

// fakeUpstream serves chat completions and records each request
func fakeUpstream(status int, body string) (*httptest.Server, *[]capturedRequest) {
	var mu sync.Mutex
	captured := []capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		captured = append(captured, capturedRequest{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: payload})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	return srv, &captured
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 0,
		"model":   DefaultModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestOpenAIClient(t *testing.T) {
	Convey("Given an OpenAI-compatible upstream", t, func() {
		ctx := context.Background()

		Convey("When the product assessment succeeds", func() {
			srv, captured := fakeUpstream(http.StatusOK, completionBody("relevant_claims: 00001\nexplanation: gear"))
			defer srv.Close()

			client, err := NewOpenAIClient(Config{APIKey: "secret", BaseURL: srv.URL, Timeout: time.Second})
			So(err, ShouldBeNil)

			reply, err := client.AssessProduct(ctx, testPatent, testProduct)

			Convey("Then the first choice content is returned", func() {
				So(err, ShouldBeNil)
				So(reply, ShouldEqual, "relevant_claims: 00001\nexplanation: gear")
			})

			Convey("And one authenticated deterministic request was sent", func() {
				So(*captured, ShouldHaveLength, 1)
				req := (*captured)[0]
				So(req.Path, ShouldEndWith, "/chat/completions")
				So(req.Auth, ShouldEqual, "Bearer secret")
				So(req.Body["model"], ShouldEqual, DefaultModel)
				So(req.Body["temperature"], ShouldEqual, 0.0)

				messages := req.Body["messages"].([]any)
				So(messages, ShouldHaveLength, 2)
				system := messages[0].(map[string]any)
				user := messages[1].(map[string]any)
				So(system["role"], ShouldEqual, "system")
				So(system["content"], ShouldContainSubstring, "professional patent attorney")
				So(system["content"], ShouldContainSubstring, "'Widget'")
				So(system["content"], ShouldContainSubstring, "'US123'")
				So(user["role"], ShouldEqual, "user")
				So(user["content"], ShouldContainSubstring, "A widget comprising a gear., The widget of claim 1 with a spring.")
				So(user["content"], ShouldContainSubstring, "specific_features: feature1, feature2, feature3")
			})
		})

		Convey("When a summary is requested", func() {
			srv, captured := fakeUpstream(http.StatusOK, completionBody("Acme is at risk."))
			defer srv.Close()

			client, _ := NewOpenAIClient(Config{APIKey: "secret", BaseURL: srv.URL})
			summary, err := client.Summarize(ctx, testPatent, testCompany, []string{"first", "second"})

			Convey("Then findings are joined with semicolons", func() {
				So(err, ShouldBeNil)
				So(summary, ShouldEqual, "Acme is at risk.")
				messages := (*captured)[0].Body["messages"].([]any)
				user := messages[1].(map[string]any)
				So(user["content"], ShouldContainSubstring, "first; second")
				So(user["content"], ShouldEndWith, "Give a summary of the assessment.")
			})
		})

		Convey("When the upstream fails", func() {
			cases := map[string]struct {
				status int
				body   string
			}{
				"server error": {http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
				"no choices":   {http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`},
				"malformed":    {http.StatusOK, `{not json`},
			}
			for name, tc := range cases {
				srv, _ := fakeUpstream(tc.status, tc.body)
				client, _ := NewOpenAIClient(Config{APIKey: "secret", BaseURL: srv.URL})
				_, err := client.AssessProduct(ctx, testPatent, testProduct)
				srv.Close()

				Convey("Then "+name+" is reported as a client error", func() {
					So(err, ShouldNotBeNil)
					So(errors.Is(err, ErrClient), ShouldBeTrue)
				})
			}
		})

		Convey("When the completion content is empty", func() {
			srv, _ := fakeUpstream(http.StatusOK, completionBody(""))
			defer srv.Close()

			client, _ := NewOpenAIClient(Config{APIKey: "secret", BaseURL: srv.URL})
			reply, err := client.AssessProduct(ctx, testPatent, testProduct)
			summary, sumErr := client.Summarize(ctx, testPatent, testCompany, []string{"first"})

			Convey("Then the empty text is returned without error", func() {
				So(err, ShouldBeNil)
				So(reply, ShouldEqual, "")
				So(sumErr, ShouldBeNil)
				So(summary, ShouldEqual, "")
			})
		})

		Convey("When the upstream is slower than the timeout", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}))
			defer srv.Close()

			client, _ := NewOpenAIClient(Config{APIKey: "secret", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
			_, err := client.AssessProduct(ctx, testPatent, testProduct)

			Convey("Then the call fails instead of hanging", func() {
				So(errors.Is(err, ErrClient), ShouldBeTrue)
			})
		})
	})
}

func TestAnthropicClient(t *testing.T) {
	Convey("Given an Anthropic messages upstream", t, func() {
		body := `{"id":"msg_1","type":"message","role":"assistant","model":"claude","content":[{"type":"text","text":"explanation: ok"}],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":1}}`
		srv, captured := fakeUpstream(http.StatusOK, body)
		defer srv.Close()

		client, err := NewAnthropicClient(Config{APIKey: "secret", BaseURL: srv.URL})
		So(err, ShouldBeNil)

		reply, err := client.AssessProduct(context.Background(), testPatent, testProduct)

		Convey("Then text blocks are concatenated", func() {
			So(err, ShouldBeNil)
			So(reply, ShouldEqual, "explanation: ok")
			So(client.Name(), ShouldEqual, ProviderAnthropic)
			So(client.Model(), ShouldEqual, DefaultAnthropicModel)
		})

		Convey("And the system prompt travels in the system field", func() {
			So((*captured)[0].Path, ShouldEndWith, "/messages")
			So((*captured)[0].Body["temperature"], ShouldEqual, 0.0)
			So((*captured)[0].Body["system"], ShouldNotBeNil)
		})
	})
}

func TestNewClient(t *testing.T) {
	Convey("Given provider names", t, func() {
		Convey("Then openai is the default and reports groq for the Groq endpoint", func() {
			c, err := NewClient(Config{APIKey: "k"})
			So(err, ShouldBeNil)
			So(c.Name(), ShouldEqual, "groq")
		})

		Convey("Then a custom endpoint reports openai", func() {
			c, err := NewClient(Config{Provider: "openai", APIKey: "k", BaseURL: "https://api.openai.com/v1"})
			So(err, ShouldBeNil)
			So(c.Name(), ShouldEqual, ProviderOpenAI)
		})

		Convey("Then anthropic is selectable", func() {
			c, err := NewClient(Config{Provider: "Anthropic", APIKey: "k"})
			So(err, ShouldBeNil)
			So(c.Name(), ShouldEqual, ProviderAnthropic)
		})

		Convey("Then unknown providers and missing keys are rejected", func() {
			_, err := NewClient(Config{Provider: "bard", APIKey: "k"})
			So(err, ShouldNotBeNil)
			_, err = NewClient(Config{})
			So(err, ShouldNotBeNil)
		})
	})
}

type countingClient struct {
	mu         sync.Mutex
	assessed   int
	summarized int
	err        error
}

func (c *countingClient) Name() string  { return "fake" }
func (c *countingClient) Model() string { return "fake-model" }

func (c *countingClient) AssessProduct(_ context.Context, _ reference.Patent, product reference.Product) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assessed++
	if c.err != nil {
		return "", c.err
	}
	return "explanation: " + product.Name, nil
}

func (c *countingClient) Summarize(_ context.Context, _ reference.Patent, _ reference.Company, findings []string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summarized++
	return strings.Join(findings, "|"), nil
}

type lookupRecorder struct{ hits, misses int }

func (r *lookupRecorder) RecordCacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

type callRecorder struct {
	calls  []string
	failed int
}

func (r *callRecorder) RecordLLMCall(provider, operation string, err error, _ time.Duration) {
	r.calls = append(r.calls, provider+":"+operation)
	if err != nil {
		r.failed++
	}
}

func TestCachedClient(t *testing.T) {
	Convey("Given a cached client over a counting provider", t, func() {
		ctx := context.Background()
		inner := &countingClient{}
		rec := &lookupRecorder{}
		client := NewCachedClient(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, rec)

		Convey("When the same product is assessed twice", func() {
			first, err1 := client.AssessProduct(ctx, testPatent, testProduct)
			second, err2 := client.AssessProduct(ctx, testPatent, testProduct)

			Convey("Then the upstream is called once", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldEqual, second)
				So(inner.assessed, ShouldEqual, 1)
				So(rec.hits, ShouldEqual, 1)
				So(rec.misses, ShouldEqual, 1)
			})
		})

		Convey("When the patent content changes between calls", func() {
			edited := testPatent
			edited.Abstract = "an edited abstract"
			_, _ = client.AssessProduct(ctx, testPatent, testProduct)
			_, _ = client.AssessProduct(ctx, edited, testProduct)

			Convey("Then the stale reply is not served", func() {
				So(inner.assessed, ShouldEqual, 2)
				So(rec.misses, ShouldEqual, 2)
			})
		})

		Convey("When a cached reply is forgotten", func() {
			_, _ = client.AssessProduct(ctx, testPatent, testProduct)
			err := client.Forget(ctx, testPatent, testProduct)
			_, _ = client.AssessProduct(ctx, testPatent, testProduct)

			Convey("Then the next call reaches the upstream again", func() {
				So(err, ShouldBeNil)
				So(inner.assessed, ShouldEqual, 2)
				So(rec.hits, ShouldEqual, 0)
			})
		})

		Convey("When the upstream fails", func() {
			inner.err = errors.New("down")
			_, err := client.AssessProduct(ctx, testPatent, testProduct)
			inner.err = nil
			_, err2 := client.AssessProduct(ctx, testPatent, testProduct)

			Convey("Then the failure is not cached", func() {
				So(err, ShouldNotBeNil)
				So(err2, ShouldBeNil)
				So(inner.assessed, ShouldEqual, 2)
			})
		})

		Convey("When summaries are requested", func() {
			_, _ = client.Summarize(ctx, testPatent, testCompany, []string{"a"})
			_, _ = client.Summarize(ctx, testPatent, testCompany, []string{"a"})

			Convey("Then they always reach the upstream", func() {
				So(inner.summarized, ShouldEqual, 2)
			})
		})
	})
}

func TestInstrumentedClient(t *testing.T) {
	Convey("Given an instrumented client", t, func() {
		inner := &countingClient{}
		rec := &callRecorder{}
		client := NewInstrumentedClient(inner, rec)

		_, _ = client.AssessProduct(context.Background(), testPatent, testProduct)
		inner.err = errors.New("down")
		_, _ = client.AssessProduct(context.Background(), testPatent, testProduct)
		_, _ = client.Summarize(context.Background(), testPatent, testCompany, nil)

		Convey("Then every call is recorded with its operation", func() {
			So(rec.calls, ShouldResemble, []string{"fake:assess", "fake:assess", "fake:summarize"})
			So(rec.failed, ShouldEqual, 1)
			So(client.Model(), ShouldEqual, "fake-model")
		})
	})
}
