package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/d1nch8g/briefcast/artifact"
	"github.com/d1nch8g/briefcast/audio"
	"github.com/d1nch8g/briefcast/engine"
	"github.com/d1nch8g/briefcast/sources"
	"github.com/d1nch8g/briefcast/tts"
)

type stubAggregator struct {
	err   error
	block chan struct{}
	start chan struct{}
}

func (s *stubAggregator) Aggregate(ctx context.Context, tickers []string) (*sources.Result, error) {
	if s.start != nil {
		close(s.start)
		s.start = nil
	}
	if s.block != nil {
		<-s.block
	}
	if s.err != nil {
		return nil, s.err
	}
	return &sources.Result{
		Content: "news",
		Sources: []sources.Source{{Title: "Wire", URI: "https://example.com/wire"}},
	}, nil
}

type stubWriter struct{}

func (stubWriter) WriteScript(ctx context.Context, content string, tickers []string) (string, error) {
	return "Good morning, here is your briefing.", nil
}

type stubSynth struct {
	payload string
}

func (s *stubSynth) Synthesize(ctx context.Context, script string, voice tts.Voice) (*tts.Speech, error) {
	return &tts.Speech{Audio: s.payload, Codec: audio.PCM24K}, nil
}

func (s *stubSynth) Voices() []tts.Voice { return []tts.Voice{"Kore", "Puck"} }
func (s *stubSynth) Close() error        { return nil }

func newTestServer(t *testing.T, agg *stubAggregator, synth *stubSynth) (*httptest.Server, *artifact.Store) {
	t.Helper()
	store := artifact.NewStore("")
	e := engine.NewEngine(engine.EngineConfig{}, agg, stubWriter{}, synth, store)
	ts := httptest.NewServer(New(e, store))
	t.Cleanup(ts.Close)
	return ts, store
}

func pcm(samples int) string {
	return base64.StdEncoding.EncodeToString(make([]byte, samples*2))
}

func postBriefing(t *testing.T, url, body string) (*http.Response, GenerateResponse) {
	t.Helper()
	resp, err := http.Post(url+"/api/briefings", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	defer resp.Body.Close()

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func TestGenerate_Status(t *testing.T) {
	tests := []struct {
		name       string
		agg        *stubAggregator
		payload    string
		body       string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "success",
			agg:        &stubAggregator{},
			payload:    pcm(2400),
			body:       `{"tickers":"GOOG, TSLA","voice":"Puck"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "no tickers",
			agg:        &stubAggregator{},
			payload:    pcm(10),
			body:       `{"tickers":""}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation",
		},
		{
			name:       "unknown voice",
			agg:        &stubAggregator{},
			payload:    pcm(10),
			body:       `{"tickers":"GOOG","voice":"Nobody"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "validation",
		},
		{
			name:       "collaborator failure",
			agg:        &stubAggregator{err: errors.New("search unavailable")},
			payload:    pcm(10),
			body:       `{"tickers":"GOOG"}`,
			wantStatus: http.StatusBadGateway,
			wantKind:   "collaborator",
		},
		{
			name:       "bad payload",
			agg:        &stubAggregator{},
			payload:    "not base64!",
			body:       `{"tickers":"GOOG"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   "decode",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts, _ := newTestServer(t, tc.agg, &stubSynth{payload: tc.payload})
			resp, out := postBriefing(t, ts.URL, tc.body)
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d; want %d", resp.StatusCode, tc.wantStatus)
			}
			if out.Kind != tc.wantKind {
				t.Errorf("kind = %q; want %q", out.Kind, tc.wantKind)
			}
			if out.Stage != engine.StageIdle {
				t.Errorf("stage = %v; want idle", out.Stage)
			}
			if tc.wantStatus == http.StatusOK && (out.Artifact == nil || len(out.Sources) != 1) {
				t.Errorf("response = %+v", out)
			}
			if tc.wantStatus != http.StatusOK && (out.Error == "" || out.Artifact != nil) {
				t.Errorf("response = %+v", out)
			}
		})
	}
}

func TestGenerate_BadBody(t *testing.T) {
	ts, _ := newTestServer(t, &stubAggregator{}, &stubSynth{payload: pcm(10)})
	resp, err := http.Post(ts.URL+"/api/briefings", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", resp.StatusCode)
	}
}

func TestGenerate_Busy(t *testing.T) {
	agg := &stubAggregator{block: make(chan struct{}), start: make(chan struct{})}
	started := agg.start
	ts, _ := newTestServer(t, agg, &stubSynth{payload: pcm(10)})

	first := make(chan int, 1)
	go func() {
		resp, err := http.Post(ts.URL+"/api/briefings", "application/json", strings.NewReader(`{"tickers":"GOOG"}`))
		if err != nil {
			first <- 0
			return
		}
		resp.Body.Close()
		first <- resp.StatusCode
	}()
	<-started

	resp, out := postBriefing(t, ts.URL, `{"tickers":"TSLA"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d; want 409", resp.StatusCode)
	}
	if out.Stage != engine.StageFetchingSources {
		t.Errorf("stage = %v; want fetching_sources", out.Stage)
	}

	close(agg.block)
	if code := <-first; code != http.StatusOK {
		t.Errorf("first run status = %d; want 200", code)
	}
}

func TestArtifact(t *testing.T) {
	ts, store := newTestServer(t, &stubAggregator{}, &stubSynth{payload: pcm(2400)})

	_, first := postBriefing(t, ts.URL, `{"tickers":"GOOG"}`)
	if first.Artifact == nil {
		t.Fatal("no artifact")
	}

	resp, err := http.Get(ts.URL + first.Artifact.URL)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %q; want audio/wav", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, first.Artifact.Filename) {
		t.Errorf("Content-Disposition = %q; want filename %q", cd, first.Artifact.Filename)
	}
	if len(body) != 44+4800 || string(body[:4]) != "RIFF" {
		t.Errorf("body = %d bytes starting %q", len(body), body[:4])
	}

	// A second briefing revokes the first URL.
	_, second := postBriefing(t, ts.URL, `{"tickers":"TSLA"}`)
	resp, err = http.Get(ts.URL + first.Artifact.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("revoked artifact status = %d; want 404", resp.StatusCode)
	}
	if _, ok := store.Open(second.Artifact.ID); !ok {
		t.Error("current artifact missing from store")
	}
}

func TestStateAndVoices(t *testing.T) {
	ts, _ := newTestServer(t, &stubAggregator{}, &stubSynth{payload: pcm(10)})

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatal(err)
	}
	var st engine.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if st.Stage != engine.StageIdle || st.Sources == nil {
		t.Errorf("state = %+v", st)
	}

	resp, err = http.Get(ts.URL + "/api/voices")
	if err != nil {
		t.Fatal(err)
	}
	var voices struct {
		Voices []string `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&voices); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if strings.Join(voices.Voices, ",") != "Kore,Puck" {
		t.Errorf("voices = %v", voices.Voices)
	}
}

func TestEvents(t *testing.T) {
	ts, _ := newTestServer(t, &stubAggregator{}, &stubSynth{payload: pcm(10)})

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/events", nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var initial engine.State
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial state: %v", err)
	}
	if initial.Stage != engine.StageIdle {
		t.Errorf("initial stage = %v; want idle", initial.Stage)
	}

	postBriefing(t, ts.URL, `{"tickers":"GOOG"}`)

	want := []engine.Stage{
		engine.StageFetchingSources,
		engine.StageGeneratingScript,
		engine.StageGeneratingAudio,
		engine.StageIdle,
	}
	for i, stage := range want {
		var st engine.State
		if err := conn.ReadJSON(&st); err != nil {
			t.Fatalf("read event %d: %v", i, err)
		}
		if st.Stage != stage {
			t.Errorf("event %d stage = %v; want %v", i, st.Stage, stage)
		}
	}
}
