// Package scoring validates the aggregate score document attached to a
// competition.
//
// A score looks like:
//
//	{"results": {"sprints": {"gold": 2, "silver": 1, "bronze": 3}}}
//
// Only known disciplines are accepted, medal counts default to zero and
// must not be negative, and unknown keys anywhere in the document are
// rejected.
package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Discipline is an athletic discipline tracked in competitions.
type Discipline string

const (
	Sprints      Discipline = "sprints"
	LongDistance Discipline = "long_distance"
	Relays       Discipline = "relays"
	HighJump     Discipline = "high_jump"
	LongJump     Discipline = "long_jump"
)

// Disciplines lists every known discipline in declaration order.
var Disciplines = []Discipline{Sprints, LongDistance, Relays, HighJump, LongJump}

// Valid reports whether d is one of the known disciplines.
func (d Discipline) Valid() bool {
	for _, known := range Disciplines {
		if d == known {
			return true
		}
	}
	return false
}

// MedalCount is the number of medals won in one discipline.
type MedalCount struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Score is the aggregate score summary for a competition.
type Score struct {
	Results map[Discipline]MedalCount `json:"results"`
}

// Error describes why a score document was rejected. Problems are keyed by
// a dotted path into the document, e.g. "results.sprints.gold".
type Error struct {
	Problems map[string][]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Problems))
	for k := range e.Problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	b.WriteString("invalid score")
	for _, k := range keys {
		for _, msg := range e.Problems[k] {
			fmt.Fprintf(&b, "; %s: %s", k, msg)
		}
	}
	return b.String()
}

func (e *Error) add(path, msg string) {
	if e.Problems == nil {
		e.Problems = make(map[string][]string)
	}
	e.Problems[path] = append(e.Problems[path], msg)
}

// Parse decodes and validates a raw score document. The returned score has
// every medal count filled in, so re-encoding it yields a canonical document.
func Parse(raw []byte) (*Score, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &Error{Problems: map[string][]string{"": {"must be a JSON object"}}}
	}

	verr := &Error{}
	for key := range top {
		if key != "results" {
			verr.add(key, "extra fields not permitted")
		}
	}

	score := &Score{Results: map[Discipline]MedalCount{}}
	if rawResults, ok := top["results"]; ok {
		var results map[string]json.RawMessage
		if isNull(rawResults) {
			verr.add("results", "must not be null")
		} else if err := json.Unmarshal(rawResults, &results); err != nil {
			verr.add("results", "must be an object keyed by discipline")
		}
		for key, rawCount := range results {
			path := "results." + key
			d := Discipline(key)
			if !d.Valid() {
				verr.add(path, fmt.Sprintf("unknown discipline %q", key))
				continue
			}
			count, err := decodeMedalCount(rawCount)
			if err != nil {
				verr.add(path, err.Error())
				continue
			}
			if count.Gold < 0 {
				verr.add(path+".gold", "must be greater than or equal to 0")
			}
			if count.Silver < 0 {
				verr.add(path+".silver", "must be greater than or equal to 0")
			}
			if count.Bronze < 0 {
				verr.add(path+".bronze", "must be greater than or equal to 0")
			}
			score.Results[d] = count
		}
	}

	if len(verr.Problems) > 0 {
		return nil, verr
	}
	return score, nil
}

// Normalize validates raw and returns its canonical encoding.
func Normalize(raw []byte) ([]byte, error) {
	score, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(score)
}

func decodeMedalCount(raw json.RawMessage) (MedalCount, error) {
	var count MedalCount
	if isNull(raw) {
		return count, errors.New("must not be null")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&count); err != nil {
		return count, errors.New("must be an object with integer gold, silver and bronze counts")
	}
	if _, err := dec.Token(); err != io.EOF {
		return count, errors.New("must be a single object")
	}
	return count, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
