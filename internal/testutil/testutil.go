// Package testutil holds fakes shared by service and handler tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/docstore"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/sqlite"
)

// Clock returns a fixed time that tests can move forward.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	// every reading advances a millisecond so records order deterministically
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// Repos opens an in-memory record store.
func Repos(t *testing.T) docstore.Repositories {
	t.Helper()
	st, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.DB().Close() })
	return docstore.NewRepositories(st)
}

// Functions fakes the remote backend: each handler receives the decoded
// payload and returns the value to encode as the answer.
type Functions struct {
	mu       sync.Mutex
	handlers map[string]func(payload map[string]any) (any, error)
	calls    map[string][]map[string]any
}

func NewFunctions() *Functions {
	return &Functions{
		handlers: map[string]func(map[string]any) (any, error){},
		calls:    map[string][]map[string]any{},
	}
}

func (f *Functions) On(name string, h func(payload map[string]any) (any, error)) *Functions {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = h
	return f
}

// Calls returns the payloads received for name.
func (f *Functions) Calls(name string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.calls[name]...)
}

func (f *Functions) Call(ctx context.Context, name string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var in map[string]any
	_ = json.Unmarshal(raw, &in)

	f.mu.Lock()
	h, ok := f.handlers[name]
	f.calls[name] = append(f.calls[name], in)
	f.mu.Unlock()
	if !ok {
		return &functions.RemoteError{Function: name, StatusCode: 404, Message: "function not found"}
	}
	res, err := h(in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// LLM answers by tool name with canned JSON.
type LLM struct {
	mu       sync.Mutex
	answers  map[string]string
	errs     map[string]error
	Requests []ai.Request
}

func NewLLM() *LLM {
	return &LLM{answers: map[string]string{}, errs: map[string]error{}}
}

func (l *LLM) Answer(tool, jsonBody string) *LLM {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.answers[tool] = jsonBody
	return l
}

func (l *LLM) Fail(tool string, err error) *LLM {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs[tool] = err
	return l
}

func (l *LLM) Invoke(ctx context.Context, req ai.Request) (json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Requests = append(l.Requests, req)
	if err := l.errs[req.Name]; err != nil {
		return nil, err
	}
	a, ok := l.answers[req.Name]
	if !ok {
		return nil, fmt.Errorf("no canned answer for %s", req.Name)
	}
	return json.RawMessage(a), nil
}

// Last returns the most recent request.
func (l *LLM) Last() ai.Request {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Requests) == 0 {
		return ai.Request{}
	}
	return l.Requests[len(l.Requests)-1]
}

// Files is an in-memory object store.
type Files struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewFiles() *Files { return &Files{Objects: map[string][]byte{}} }

func (f *Files) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[key] = buf.Bytes()
	return "https://files.test/" + key, nil
}

func (f *Files) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, key)
	return nil
}

func (f *Files) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Objects[key]
	return ok
}
