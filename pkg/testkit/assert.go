package testkit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, scenario *Scenario, got int) {
	t.Helper()
	assert.Equal(t, scenario.ExpectedCode, got,
		"[%s] HTTP status code mismatch", scenario.Name)
}

// AssertJSONBody compares both bodies after decoding, so key order and
// whitespace never matter. Paths in scenario.IgnoreFields must exist in the
// actual body and are removed before comparison.
func AssertJSONBody(t *testing.T, scenario *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", scenario.Name)

	if !assert.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", scenario.Name, string(actual)) {
		return
	}

	for _, path := range scenario.IgnoreFields {
		assert.True(t, remove(actVal, path),
			"[%s] ignored field %q missing from response", scenario.Name, path)
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", scenario.Name)
}

func remove(doc interface{}, path string) bool {
	parts := strings.Split(path, ".")
	cur := doc
	for i, part := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return false
		}
		if i == len(parts)-1 {
			if _, ok := m[part]; !ok {
				return false
			}
			delete(m, part)
			return true
		}
		cur = m[part]
	}
	return false
}
