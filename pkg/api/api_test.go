package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/surflabel/pkg/cache"
	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/observability"
	"github.com/matzehuels/surflabel/pkg/pipeline"
	"github.com/matzehuels/surflabel/pkg/surfio"
)

// A 5-vertex strip: vertices on a line at unit spacing, plus a zig-zag row
// of triangles connecting them so the mesh has real faces.
const stripSurface = `{
  "vertices": [[0,0,0],[1,0,0],[2,0,0],[3,0,0],[4,0,0],[0.5,1,0],[1.5,1,0],[2.5,1,0],[3.5,1,0]],
  "triangles": [[0,1,5],[1,2,6],[2,3,7],[3,4,8],[1,6,5],[2,7,6],[3,8,7]]
}`

const stripLabels = `{
  "table": [{"key": 1, "name": "A"}, {"key": 2, "name": "B"}],
  "columns": [{"name": "roi", "keys": [1,0,0,2,0,0,0,0,0]}]
}`

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(fc, nil, logger)
	s := New(runner, append([]Option{WithLogger(logger), WithWorkers(2)}, opts...)...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dilateBody(radius, column string) string {
	body := `{"surface": ` + stripSurface + `, "labels": ` + stripLabels
	if radius != "" {
		body += `, "radius": ` + radius
	}
	if column != "" {
		body += `, "column": "` + column + `"`
	}
	return body + "}"
}

func post(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/dilate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, WithVersion("1.2.3"))
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] != "1.2.3" {
		t.Errorf("body = %v", body)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("missing request id header: %q", resp.Header.Get(RequestIDHeader))
	}
}

func TestDilate(t *testing.T) {
	_, ts := newTestServer(t)

	resp := post(t, ts, dilateBody("1.2", ""))
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	var out DilateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.ID != resp.Header.Get(RequestIDHeader) {
		t.Errorf("id %q != header %q", out.ID, resp.Header.Get(RequestIDHeader))
	}
	if out.Cached {
		t.Error("first request should not be cached")
	}

	labels, err := surfio.UnmarshalLabels(out.Labels)
	if err != nil {
		t.Fatalf("response labels: %v", err)
	}
	if labels.ColumnName(0) != "roi dilated" {
		t.Errorf("column name = %q", labels.ColumnName(0))
	}
	// Along the bottom row the path scenario applies: [A, A, B, B, B].
	if got := labels.Keys(0)[:5]; !slices.Equal(got, []int32{1, 1, 2, 2, 2}) {
		t.Errorf("bottom row = %v, want [1 1 2 2 2]", got)
	}
	if len(out.Stats) != 1 || out.Stats[0].Assigned != 2 {
		t.Errorf("stats = %+v", out.Stats)
	}

	again := post(t, ts, dilateBody("1.2", ""))
	var cached DilateResponse
	if err := json.NewDecoder(again.Body).Decode(&cached); err != nil {
		t.Fatal(err)
	}
	if !cached.Cached {
		t.Error("repeated request should be served from cache")
	}
}

func TestDilateErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   errors.Code
		wantMsg    string
	}{
		{"malformed json", `{"surface":`, http.StatusBadRequest, errors.ErrCodeInvalidArgument, "decode request"},
		{"unknown field", `{"bogus": 1}`, http.StatusBadRequest, errors.ErrCodeInvalidArgument, "decode request"},
		{"missing inputs", `{"radius": 1}`, http.StatusBadRequest, errors.ErrCodeInvalidArgument, "required"},
		{"missing radius", dilateBody("", ""), http.StatusBadRequest, errors.ErrCodeInvalidArgument, "radius is required"},
		{"negative radius", dilateBody("-1", ""), http.StatusBadRequest, errors.ErrCodeInvalidArgument, "invalid distance specified"},
		{"unknown column", dilateBody("1", "nope"), http.StatusBadRequest, errors.ErrCodeInvalidArgument, "invalid column specified"},
		{"bad mesh", `{"surface": {"vertices": [[0,0,0]], "triangles": [[0,0,1]]}, "labels": {}, "radius": 1}`,
			http.StatusBadRequest, errors.ErrCodeInvalidMesh, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if !strings.Contains(body.Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", body.Message, tt.wantMsg)
			}
			if body.RequestID == "" {
				t.Error("request_id missing")
			}
		})
	}
}

func TestBodyLimit(t *testing.T) {
	_, ts := newTestServer(t, WithMaxBodyBytes(64))
	resp := post(t, ts, dilateBody("1", ""))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	_, ts := newTestServer(t)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom := observability.NewPrometheusHooks(reg)
	observability.SetHTTPHooks(prom)
	defer observability.Reset()

	_, ts := newTestServer(t, WithMetrics(prom.Handler()))
	post(t, ts, dilateBody("-1", ""))

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	want := `surflabel_http_requests_total{method="POST",route="/v1/dilate",status="400"} 1`
	if !bytes.Contains(body, []byte(want)) {
		t.Errorf("metrics missing %q:\n%s", want, body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidLabels, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
