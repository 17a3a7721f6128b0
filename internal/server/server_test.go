package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"github.com/opd-ai/go-seedrand"
	"github.com/opd-ai/go-seedrand/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default().Server
	cfg.MaxCount = 1000
	cfg.MaxAdvance = 1 << 20
	ts := httptest.NewServer(New(cfg, zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postDraw(t *testing.T, url string, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/v1/draw", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Identity so the transport does not negotiate gzip on its own.
	req.Header.Set("Accept-Encoding", "identity")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeDraw(t *testing.T, data []byte) DrawResponse {
	t.Helper()
	var out DrawResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode response %s: %v", data, err)
	}
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if strings.TrimSpace(string(body)) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
}

func TestDrawMatchesEngine(t *testing.T) {
	ts := newTestServer(t)

	resp, data := postDraw(t, ts.URL, `{"seed":"12345","kind":"uint64","n":4}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	got := decodeDraw(t, data)

	e := seedrand.MustNew(int64(12345))
	text, err := e.AppendText(nil, seedrand.KindUint64, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Fields(string(text))
	if len(got.Values) != len(want) {
		t.Fatalf("len(values) = %d, want %d", len(got.Values), len(want))
	}
	for i := range want {
		if got.Values[i] != want[i] {
			t.Errorf("values[%d] = %s, want %s", i, got.Values[i], want[i])
		}
	}
	if got.Kind != "uint64" {
		t.Errorf("kind = %q, want uint64", got.Kind)
	}
	if got.Descriptor.String() != e.Descriptor().String() {
		t.Errorf("descriptor = %v, want %v", got.Descriptor, e.Descriptor())
	}
}

func TestDrawResumeFromDescriptor(t *testing.T) {
	ts := newTestServer(t)

	_, data := postDraw(t, ts.URL, `{"seed":"resume","seed_type":"string","n":5}`)
	first := decodeDraw(t, data)

	desc, err := json.Marshal(first.Descriptor)
	if err != nil {
		t.Fatal(err)
	}
	resp, data := postDraw(t, ts.URL, `{"n":3,"descriptor":`+string(desc)+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, data)
	}
	second := decodeDraw(t, data)

	_, data = postDraw(t, ts.URL, `{"seed":"resume","seed_type":"string","n":8}`)
	whole := decodeDraw(t, data)

	joined := append(append([]string{}, first.Values...), second.Values...)
	if len(joined) != len(whole.Values) {
		t.Fatalf("got %d values, want %d", len(joined), len(whole.Values))
	}
	for i := range joined {
		if joined[i] != whole.Values[i] {
			t.Errorf("value %d = %s, want %s", i, joined[i], whole.Values[i])
		}
	}
}

func TestDrawJump(t *testing.T) {
	ts := newTestServer(t)
	_, data := postDraw(t, ts.URL, `{"seed":"7","n":2,"jump":1024}`)
	got := decodeDraw(t, data)
	if got.Descriptor.AdvJump != 1024 {
		t.Errorf("adv_jump = %d, want 1024", got.Descriptor.AdvJump)
	}
}

func TestDrawErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"seed":`},
		{"unknown field", `{"seeds":"1"}`},
		{"unknown kind", `{"seed":"1","kind":"complex128","n":1}`},
		{"too many", `{"seed":"1","n":1001}`},
		{"negative", `{"seed":"1","n":-1}`},
		{"odd jump", `{"seed":"1","n":1,"jump":3}`},
		{"bad int seed", `{"seed":"x","seed_type":"int","n":1}`},
		{"advance too far", `{"n":1,"descriptor":{"seed":{"type":"int","value":"1"},"adv_jump":0,"adv":1125899906842624}}`},
		{"bad descriptor", `{"n":1,"descriptor":{"seed":{"type":"int","value":"1"},"adv_jump":0,"adv":3}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := postDraw(t, ts.URL, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, http.StatusBadRequest, data)
			}
			var e errorResponse
			if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
				t.Errorf("error body = %s", data)
			}
		})
	}
}

func TestDrawAdvanceLimit(t *testing.T) {
	ts := newTestServer(t)
	desc := func(adv int64) string {
		return fmt.Sprintf(`{"n":1,"descriptor":{"seed":{"type":"int","value":"1"},"adv_jump":0,"adv":%d}}`, adv)
	}

	resp, data := postDraw(t, ts.URL, desc(1<<20))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("at limit: status = %d, body %s", resp.StatusCode, data)
	}

	resp, data = postDraw(t, ts.URL, desc(1<<20+2))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("over limit: status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	if !strings.Contains(string(data), "exceeds limit") {
		t.Errorf("over limit: body = %s, want limit error", data)
	}
}

func TestCompression(t *testing.T) {
	ts := newTestServer(t)
	body := `{"seed":"1","kind":"bool","n":200}`

	for _, enc := range []string{"zstd", "gzip"} {
		t.Run(enc, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, ts.URL+"/v1/draw", strings.NewReader(body))
			req.Header.Set("Accept-Encoding", enc)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if got := resp.Header.Get("Content-Encoding"); got != enc {
				t.Fatalf("Content-Encoding = %q, want %q", got, enc)
			}

			var r io.Reader
			switch enc {
			case "zstd":
				zr, err := zstd.NewReader(resp.Body)
				if err != nil {
					t.Fatal(err)
				}
				defer zr.Close()
				r = zr
			case "gzip":
				gr, err := gzip.NewReader(resp.Body)
				if err != nil {
					t.Fatal(err)
				}
				r = gr
			}
			data, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			got := decodeDraw(t, data)
			if len(got.Values) != 200 {
				t.Errorf("len(values) = %d, want 200", len(got.Values))
			}
		})
	}
}

func TestCompressionSkipsNoContent(t *testing.T) {
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "zstd")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want empty", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("body length = %d, want 0", rec.Body.Len())
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	s := New(config.Default().Server, log)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log %q: %v", buf.String(), err)
	}
	if line["message"] != "http.access" {
		t.Errorf("message = %v, want http.access", line["message"])
	}
	if line["path"] != "/healthz" {
		t.Errorf("path = %v, want /healthz", line["path"])
	}
	if line["status"] != float64(http.StatusOK) {
		t.Errorf("status = %v, want 200", line["status"])
	}
}
