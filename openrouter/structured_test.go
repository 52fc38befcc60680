package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type sampleOutput struct {
	Title    string   `json:"title" validate:"required"`
	Servings int      `json:"servings" validate:"gte=1"`
	Tags     []string `json:"tags"`
}

func sampleFormat() *ResponseFormat {
	return NewJSONSchemaFormat("sample_output", map[string]interface{}{
		"type":                 "object",
		"required":             []string{"title", "servings"},
		"additionalProperties": false,
	})
}

func structuredInput() Input {
	return Input{
		SystemMessage:  "Respond with JSON.",
		UserMessage:    "produce output",
		ResponseFormat: sampleFormat(),
	}
}

func TestCompleteStructuredDirectJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody(`{"title":"Salad","servings":2,"tags":["light"]}`)))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	out, err := CompleteStructured[sampleOutput](context.Background(), c, structuredInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Title != "Salad" || out.Servings != 2 || len(out.Tags) != 1 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestCompleteStructuredBracketExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text := "Here is your JSON:\n```json\n{\"title\":\"Soup\",\"servings\":4}\n```\nEnjoy!"
		w.Write([]byte(completionBody(text)))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	out, err := CompleteStructured[sampleOutput](context.Background(), c, structuredInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Title != "Soup" || out.Servings != 4 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestCompleteStructuredRepairRetry(t *testing.T) {
	var attempts atomic.Int32
	var secondSystem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if attempts.Add(1) == 1 {
			w.Write([]byte(completionBody("I cannot produce JSON, sorry.")))
			return
		}
		if len(req.Messages) > 0 && req.Messages[0].Role == RoleSystem {
			secondSystem = req.Messages[0].Content
		}
		w.Write([]byte(completionBody(`{"title":"Stew","servings":3}`)))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	out, err := CompleteStructured[sampleOutput](context.Background(), c, structuredInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Title != "Stew" {
		t.Errorf("unexpected output: %+v", out)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected exactly one repair retry, got %d attempts", attempts.Load())
	}
	if !strings.Contains(secondSystem, "Return ONLY valid JSON") {
		t.Errorf("repair attempt should strengthen the system message, got %q", secondSystem)
	}
	if !strings.HasPrefix(secondSystem, "Respond with JSON.") {
		t.Errorf("original system message should be preserved, got %q", secondSystem)
	}
}

func TestCompleteStructuredNotSupported(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Write([]byte(completionBody("still just prose, no JSON here")))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	_, err := CompleteStructured[sampleOutput](context.Background(), c, structuredInput())

	if !IsCode(err, CodeStructuredNotSupported) {
		t.Fatalf("expected STRUCTURED_NOT_SUPPORTED, got %v", err)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestCompleteStructuredSchemaMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Valid JSON, but servings violates the validate tag.
		w.Write([]byte(completionBody(`{"title":"Bad","servings":0}`)))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	_, err := CompleteStructured[sampleOutput](context.Background(), c, structuredInput())

	if !IsCode(err, CodeStructuredInvalid) {
		t.Fatalf("expected STRUCTURED_INVALID, got %v", err)
	}
}

func TestCompleteStructuredRejectsUnknownFields(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Write([]byte(completionBody(`{"title":"Extra","servings":2,"surprise":true}`)))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	_, err := CompleteStructured[sampleOutput](context.Background(), c, structuredInput())

	if !IsCode(err, CodeStructuredInvalid) {
		t.Fatalf("expected STRUCTURED_INVALID for unknown fields, got %v", err)
	}
}

func TestCompleteStructuredRequiresFormat(t *testing.T) {
	c, _ := newTestClient(t, "https://openrouter.ai/api/v1", nil)

	in := structuredInput()
	in.ResponseFormat = nil
	if _, err := CompleteStructured[sampleOutput](context.Background(), c, in); !IsCode(err, CodeStructuredInvalid) {
		t.Errorf("expected STRUCTURED_INVALID for missing format, got %v", err)
	}

	in = structuredInput()
	in.ResponseFormat.JSONSchema.Name = ""
	if _, err := CompleteStructured[sampleOutput](context.Background(), c, in); !IsCode(err, CodeStructuredInvalid) {
		t.Errorf("expected STRUCTURED_INVALID for unnamed schema, got %v", err)
	}

	in = structuredInput()
	in.ResponseFormat.JSONSchema.Strict = false
	if _, err := CompleteStructured[sampleOutput](context.Background(), c, in); !IsCode(err, CodeStructuredInvalid) {
		t.Errorf("expected STRUCTURED_INVALID for non-strict schema, got %v", err)
	}
}

func TestCompleteStructuredDoesNotRetryUpstreamErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid model"}}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, nil)
	_, err := CompleteStructured[sampleOutput](context.Background(), c, structuredInput())

	if !IsCode(err, CodeHTTP) {
		t.Fatalf("expected HTTP error to pass through, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("upstream HTTP errors must not trigger the repair retry, got %d attempts", attempts.Load())
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"direct object", `{"a":1}`, `{"a":1}`, true},
		{"direct array", `[1,2]`, `[1,2]`, true},
		{"fenced object", "```json\n{\"a\":1}\n```", `{"a":1}`, true},
		{"prose around object", "Sure! {\"a\":1} Done.", `{"a":1}`, true},
		{"array fallback", "values: [1,2,3] end", `[1,2,3]`, true},
		{"no json", "nothing here", "", false},
		{"broken braces", "{not json}", "", false},
		{"empty", "   ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSON(tc.in)
			if tc.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tc.want {
					t.Errorf("got %q, want %q", got, tc.want)
				}
				return
			}
			if !IsCode(err, CodeInvalidJSON) {
				t.Errorf("expected INVALID_JSON, got %v", err)
			}
		})
	}
}
