package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partnerplane/internal/command"
	"partnerplane/internal/formatting"
	"partnerplane/internal/partnership"
	"partnerplane/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelError, io.Discard)
	os.Exit(m.Run())
}

const testXML = `<partnerships>
  <partner name="acme" as2_id="ACME"/>
  <partner name="globex" as2_id="GLOBEX"/>
  <partnership name="acme-to-globex">
    <sender name="acme"/>
    <receiver name="globex"/>
    <attribute name="protocol" value="as2"/>
  </partnership>
</partnerships>`

func newTestServer(t *testing.T) (*Server, *partnership.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partnerships.xml")
	require.NoError(t, os.WriteFile(path, []byte(testXML), 0644))

	reg := prometheus.NewRegistry()
	store, err := partnership.New(partnership.Config{Filename: path, Registerer: reg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init(context.Background()))

	return New("127.0.0.1:0", store, command.NewDefaultRegistry(store), reg), store
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `partnerplane_partnership_reloads_total{origin="init",result="published"} 1`)
	assert.Contains(t, rec.Body.String(), "partnerplane_partners 2")
}

func TestStatus(t *testing.T) {
	s, store := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, store.Current().Revision, got.Revision)
	assert.Equal(t, 2, got.Partners)
	assert.Equal(t, 1, got.Partnerships)
}

func TestPartners(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/partners", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "acme", list[0]["name"])

	rec = do(t, s, http.MethodGet, "/api/v1/partners/globex", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"as2_id":"GLOBEX"`)

	rec = do(t, s, http.MethodGet, "/api/v1/partners/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown partner: nobody")
}

func TestPartnerships(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/partnerships/acme-to-globex", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got formatting.PartnershipView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "acme", got.Sender)
	assert.Equal(t, "globex", got.Receiver)

	rec = do(t, s, http.MethodGet, "/api/v1/partnerships/none", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType command.ResultType
		want     string
	}{
		{"list", "partner list", command.TypeOK, "acme\nglobex"},
		{"unknown", "frobnicate", command.TypeError, "command not found: frobnicate"},
		{"empty", "  ", command.TypeError, "empty command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/api/v1/commands", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)

			var got CommandResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.want, got.Result)
		})
	}
}

func TestCommand_Mutates(t *testing.T) {
	s, store := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/commands", "partner add initech as2_id=INITECH")
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok := store.Current().Partner("initech")
	assert.True(t, ok)
}

func TestCommand_TooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/commands", strings.Repeat("x", maxCommandBody+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/commands", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRun(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	resp, err := http.Get("http://" + s.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("admin server did not stop")
	}
}
