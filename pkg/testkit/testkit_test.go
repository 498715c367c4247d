package testkit_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/lojinha/pkg/testkit"
)

// ticketHandler issues a random ticket and redeems it on a later request,
// which only works when the runner carries state between scenarios.
func ticketHandler() http.Handler {
	var (
		mu      sync.Mutex
		n       int
		tickets = map[string]string{}
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/tickets", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Owner string `json:"owner"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)

		mu.Lock()
		n++
		id := fmt.Sprintf("t-%d", n)
		tickets[id] = in.Owner
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"ticket": id, "owner": in.Owner})
	})
	mux.HandleFunc("/redeem", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		owner, ok := tickets[r.Header.Get("X-Ticket")]
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown ticket"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"owner": owner})
	})
	return mux
}

func TestRunDir_CarriesCapturedVars(t *testing.T) {
	s := testkit.RunDir(t, ticketHandler(), "testdata")
	assert.NotEmpty(t, s.Var("ticket"))
}

func TestLoadScenario_Validation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","requestUrl":"/"}`), 0o644))

	_, err := testkit.LoadScenario(path)
	assert.ErrorContains(t, err, "expectedCode is required")
}

func TestLoadScenario_DefaultsMethod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x","requestUrl":"/","expectedCode":200,"requestFileName":"body.json"}`), 0o644))

	sc, err := testkit.LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "GET", sc.RequestMethod)
	assert.Equal(t, filepath.Join(dir, "body.json"), sc.RequestBodyPath())
	assert.Equal(t, "", sc.ResponseBodyPath())
}
