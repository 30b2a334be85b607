package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoundTrip(t *testing.T) {
	in := `{"results":{"sprints":{"gold":2,"silver":1,"bronze":0}}}`

	out, err := Normalize([]byte(in))
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestParseFillsDefaults(t *testing.T) {
	score, err := Parse([]byte(`{"results":{"high_jump":{"gold":1},"relays":{}}}`))
	require.NoError(t, err)

	assert.Equal(t, MedalCount{Gold: 1}, score.Results[HighJump])
	assert.Equal(t, MedalCount{}, score.Results[Relays])
}

func TestParseEmptyDocument(t *testing.T) {
	out, err := Normalize([]byte(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":{}}`, string(out))
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		path string
	}{
		{"unknown top-level key", `{"results":{},"winner":"us"}`, "winner"},
		{"unknown discipline", `{"results":{"pole_vault":{"gold":1}}}`, "results.pole_vault"},
		{"negative count", `{"results":{"sprints":{"gold":-1}}}`, "results.sprints.gold"},
		{"non-integer count", `{"results":{"sprints":{"gold":"two"}}}`, "results.sprints"},
		{"unknown medal key", `{"results":{"sprints":{"platinum":1}}}`, "results.sprints"},
		{"not an object", `[1,2]`, ""},
		{"null results", `{"results":null}`, "results"},
		{"null medal record", `{"results":{"sprints":null}}`, "results.sprints"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)

			var verr *Error
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Problems, tc.path)
		})
	}
}

func TestDisciplineValid(t *testing.T) {
	for _, d := range Disciplines {
		assert.True(t, d.Valid(), d)
	}
	assert.False(t, Discipline("marathon").Valid())
}
