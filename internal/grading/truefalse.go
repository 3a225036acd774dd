package grading

import (
	"encoding/json"
	"strings"
)

// tfLetters are the four fixed sub-statement letters of a true/false
// question, each graded independently.
var tfLetters = [4]string{"a", "b", "c", "d"}

// agreementCount compares a submitted true/false answer against the key (a
// comma list of the letters that are true) letter by letter. For each of
// a–d, the submission agrees when it claims the same truth value the key
// implies; unmentioned letters count as "said false".
func agreementCount(submitted, key string) int {
	shouldBeTrue := letterSet(key)
	saidTrue := parseSubmitted(submitted)

	agree := 0
	for _, l := range tfLetters {
		if shouldBeTrue[l] == saidTrue[l] {
			agree++
		}
	}
	return agree
}

// parseSubmitted accepts either a JSON object mapping letters to booleans
// ({"a":true,"b":false,...}) or a plain comma list of the true letters.
// Unparseable JSON falls back to the comma form rather than erroring.
func parseSubmitted(s string) map[string]bool {
	var m map[string]bool
	if err := json.Unmarshal([]byte(s), &m); err == nil {
		out := make(map[string]bool, len(m))
		for k, v := range m {
			if v {
				out[strings.ToLower(k)] = true
			}
		}
		return out
	}
	return letterSet(s)
}

func letterSet(csv string) map[string]bool {
	out := map[string]bool{}
	for _, part := range strings.Split(strings.ToLower(csv), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out[p] = true
		}
	}
	return out
}
