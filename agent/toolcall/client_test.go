package toolcall

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	contractx "github.com/tanpawarit/huddle/agent/contract"
	"github.com/tanpawarit/huddle/agent/teams"
)

type rpcRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

func decodeRPC(r *http.Request) rpcRequest {
	var req rpcRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	return req
}

func writeRPCResult(w http.ResponseWriter, result any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"result": result})
}

func toolList(names ...string) map[string]any {
	tools := make([]map[string]string, 0, len(names))
	for _, n := range names {
		tools = append(tools, map[string]string{"name": n})
	}
	return map[string]any{"tools": tools}
}

func textResult(text string) map[string]any {
	return map[string]any{"content": []map[string]string{{"type": "text", "text": text}}}
}

func TestDiscoverToolsCachesPerEndpoint(t *testing.T) {
	t.Parallel()

	var calls int32
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		gotAuth = r.Header.Get("Authorization")
		if req := decodeRPC(r); req.Method != "tools/list" {
			t.Errorf("method = %q, want tools/list", req.Method)
		}
		writeRPCResult(w, toolList("get_scores", "get_schedule"))
	}))
	t.Cleanup(srv.Close)

	c := New(teams.MustLoad())
	ep := Endpoint{BaseURL: srv.URL, Token: "sekret"}

	first, err := c.DiscoverTools(context.Background(), ep)
	if err != nil {
		t.Fatalf("first DiscoverTools: %v", err)
	}
	second, err := c.DiscoverTools(context.Background(), ep)
	if err != nil {
		t.Fatalf("second DiscoverTools: %v", err)
	}

	if want := []string{"get_scores", "get_schedule"}; !reflect.DeepEqual(first, want) {
		t.Fatalf("tools = %v, want %v", first, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second discovery returned %v, want %v", second, first)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("endpoint hit %d times, want 1", n)
	}
	if gotAuth != "Bearer sekret" {
		t.Fatalf("Authorization = %q, want Bearer sekret", gotAuth)
	}
}

func TestDiscoverToolsDoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": -32601, "message": "method not found"},
		})
	}))
	t.Cleanup(srv.Close)

	c := New(teams.MustLoad())
	ep := Endpoint{BaseURL: srv.URL}

	if _, err := c.DiscoverTools(context.Background(), ep); err == nil {
		t.Fatal("first DiscoverTools succeeded, want error")
	}
	if _, err := c.DiscoverTools(context.Background(), ep); err == nil {
		t.Fatal("second DiscoverTools succeeded, want error")
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("endpoint hit %d times, want 2", n)
	}
}

func TestQueryWalksShapesUntilUsable(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var attempts []map[string]any
	var toolNames []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRPC(r)
		switch req.Method {
		case "tools/list":
			writeRPCResult(w, toolList("get_scores"))
		case "tools/call":
			mu.Lock()
			attempts = append(attempts, req.Params.Arguments)
			toolNames = append(toolNames, req.Params.Name)
			mu.Unlock()
			if len(req.Params.Arguments) == 1 && req.Params.Arguments["team"] == "Georgia Bulldogs" {
				writeRPCResult(w, textResult("Georgia 27, Alabama 24"))
				return
			}
			writeRPCResult(w, textResult("No data found"))
		default:
			t.Errorf("unexpected method %q", req.Method)
		}
	}))
	t.Cleanup(srv.Close)

	c := New(teams.MustLoad())
	got, err := c.Query(context.Background(), Endpoint{BaseURL: srv.URL}, Query{
		Text:  "georgia vs alabama score",
		Hints: []Hint{{Triggers: []string{"score"}, Pattern: "score"}},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got != "Georgia 27, Alabama 24" {
		t.Fatalf("Query = %q", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(attempts) != 3 {
		t.Fatalf("attempts = %d, want 3 (stop at first usable answer)", len(attempts))
	}
	if _, ok := attempts[0]["sport"]; !ok {
		t.Errorf("first shape = %v, want team+sport", attempts[0])
	}
	if _, ok := attempts[1]["opponent"]; !ok {
		t.Errorf("second shape = %v, want team+opponent", attempts[1])
	}
	if want := map[string]any{"team": "Georgia Bulldogs"}; !reflect.DeepEqual(attempts[2], want) {
		t.Errorf("third shape = %v, want %v", attempts[2], want)
	}
	for _, name := range toolNames {
		if name != "get_scores" {
			t.Errorf("tool name = %q, want get_scores", name)
		}
	}
}

func TestQueryExhaustsAllShapes(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeRPC(r)
		if req.Method == "tools/list" {
			writeRPCResult(w, toolList("search_stats"))
			return
		}
		atomic.AddInt32(&calls, 1)
		writeRPCResult(w, textResult("no results"))
	}))
	t.Cleanup(srv.Close)

	c := New(teams.MustLoad())
	got, err := c.Query(context.Background(), Endpoint{BaseURL: srv.URL}, Query{Text: "georgia score"})
	if !errors.Is(err, contractx.ErrNoUsableAnswer) {
		t.Fatalf("err = %v, want ErrNoUsableAnswer", err)
	}
	if got != "" {
		t.Fatalf("Query = %q, want empty", got)
	}

	// "georgia score" parses to a team with no opponent: team+sport, team,
	// then the six whole-query shapes minus the raw-team duplicate check.
	if n := atomic.LoadInt32(&calls); n != 8 {
		t.Fatalf("attempts = %d, want 8", n)
	}
}

func TestQueryReportsEndpointWithoutTools(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRPCResult(w, toolList())
	}))
	t.Cleanup(srv.Close)

	c := New(teams.MustLoad())
	_, err := c.Query(context.Background(), Endpoint{BaseURL: srv.URL}, Query{Text: "anything"})
	if !errors.Is(err, contractx.ErrNoUsableAnswer) {
		t.Fatalf("err = %v, want ErrNoUsableAnswer", err)
	}
}

func TestInvokeTimesOut(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeRPCResult(w, "late")
	}))
	t.Cleanup(srv.Close)

	c := New(teams.MustLoad())
	res := c.Invoke(context.Background(), Endpoint{BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, "get_scores", map[string]any{"team": "x"})
	if res.OK {
		t.Fatal("Invoke succeeded, want timeout")
	}
	if res.Reason == "" {
		t.Fatal("Reason is empty, want timeout detail")
	}
}

func TestInvokeTreatsSentinelAsMiss(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRPCResult(w, "No data found")
	}))
	t.Cleanup(srv.Close)

	c := New(teams.MustLoad())
	res := c.Invoke(context.Background(), Endpoint{BaseURL: srv.URL}, "get_scores", map[string]any{"team": "georgia"})
	if res.OK {
		t.Fatalf("Invoke OK with sentinel reply, Text=%q", res.Text)
	}
}
