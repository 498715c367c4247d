package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Session carries captured variables between scenarios.
type Session struct {
	handler http.Handler
	vars    map[string]string
}

func NewSession(handler http.Handler) *Session {
	return &Session{handler: handler, vars: map[string]string{}}
}

// Var returns a captured variable.
func (s *Session) Var(name string) string { return s.vars[name] }

// Set defines a variable for later substitution.
func (s *Session) Set(name, value string) { s.vars[name] = value }

// Run executes a single scenario file as a subtest.
func (s *Session) Run(t *testing.T, scenarioPath string) {
	t.Helper()

	sc, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	t.Run(sc.Name, func(t *testing.T) {
		s.runScenario(t, sc)
	})
}

// RunDir runs every scenario in dir in file-name order, sharing one session.
func RunDir(t *testing.T, handler http.Handler, dir string) *Session {
	t.Helper()

	files, err := scenarioFiles(dir)
	if err != nil {
		t.Fatalf("%v", err)
	}

	s := NewSession(handler)
	for _, path := range files {
		s.Run(t, path)
	}
	return s
}

func (s *Session) runScenario(t *testing.T, sc *Scenario) {
	t.Helper()

	var reqBody io.Reader
	switch {
	case sc.RequestBodyPath() != "":
		data, err := os.ReadFile(sc.RequestBodyPath())
		if err != nil {
			t.Fatalf("[%s] read request file: %v", sc.Name, err)
		}
		reqBody = strings.NewReader(s.expand(string(data)))
	case len(sc.RequestBody) > 0:
		reqBody = strings.NewReader(s.expand(string(sc.RequestBody)))
	}

	req := httptest.NewRequest(strings.ToUpper(sc.RequestMethod), s.expand(sc.RequestURL), reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range sc.Headers {
		req.Header.Set(k, s.expand(v))
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	AssertStatusCode(t, sc, rec.Code)

	if p := sc.ResponseBodyPath(); p != "" {
		expected, err := os.ReadFile(p)
		if err != nil {
			t.Errorf("[%s] read response file %q: %v", sc.Name, p, err)
		} else {
			AssertJSONBody(t, sc, expected, rec.Body.Bytes())
		}
	}

	s.capture(t, sc, rec.Body.Bytes())
}

func (s *Session) capture(t *testing.T, sc *Scenario, body []byte) {
	t.Helper()
	if len(sc.Capture) == 0 {
		return
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Errorf("[%s] capture: response is not JSON: %v", sc.Name, err)
		return
	}

	for name, path := range sc.Capture {
		v, ok := lookup(doc, path)
		if !ok {
			t.Errorf("[%s] capture %q: path %q not found", sc.Name, name, path)
			continue
		}
		s.vars[name] = fmt.Sprintf("%v", v)
	}
}

func (s *Session) expand(in string) string {
	if !strings.Contains(in, "{{") {
		return in
	}
	pairs := make([]string, 0, len(s.vars)*2)
	for k, v := range s.vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(in)
}

func lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// DumpScenario prints what was loaded; handy while writing fixtures.
func DumpScenario(w io.Writer, sc *Scenario) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Scenario: %s\n", sc.Name)
	fmt.Fprintf(&buf, "  %s %s → %d\n", sc.RequestMethod, sc.RequestURL, sc.ExpectedCode)
	fmt.Fprintf(&buf, "  requestFile:  %s\n", sc.RequestFileName)
	fmt.Fprintf(&buf, "  responseFile: %s\n", sc.ResponseFileName)
	for name, path := range sc.Capture {
		fmt.Fprintf(&buf, "  capture: %s ← %s\n", name, path)
	}
	_, _ = w.Write(buf.Bytes())
}
