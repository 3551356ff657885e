package learner

import (
	"sort"
	"strings"
	"unicode"
)

// Field is a learner attribute an import column can map to.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

var Fields = []Field{FieldName, FieldEmail, FieldPhone}

// ColumnMapping maps each field to the index of the column holding it.
type ColumnMapping map[Field]int

const minColumnScore = 0.5

var fieldAliases = map[Field][]string{
	FieldName:  {"name", "full name", "learner name", "student name", "participant name", "first name"},
	FieldEmail: {"email", "e mail", "email address", "mail", "email id"},
	FieldPhone: {"phone", "phone number", "mobile", "mobile number", "whatsapp", "whatsapp number", "contact", "contact number", "cell"},
}

// MatchColumns guesses which header holds each field.
// Every column is used at most once; fields with no header scoring at least minColumnScore are left out.
func MatchColumns(headers []string) ColumnMapping {
	type candidate struct {
		field  Field
		column int
		score  float64
	}
	var candidates []candidate
	for column, header := range headers {
		h := normalizeHeader(header)
		if h == "" {
			continue
		}
		for _, field := range Fields {
			if score := scoreHeader(h, field); score >= minColumnScore {
				candidates = append(candidates, candidate{field: field, column: column, score: score})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	mapping := make(ColumnMapping)
	used := make(map[int]bool)
	for _, c := range candidates {
		if _, ok := mapping[c.field]; ok || used[c.column] {
			continue
		}
		mapping[c.field] = c.column
		used[c.column] = true
	}
	return mapping
}

// ResolveMapping applies explicit header names over the guessed mapping.
// An explicit header that is not present is reported as missing.
func ResolveMapping(headers []string, explicit map[Field]string) (ColumnMapping, []string) {
	mapping := MatchColumns(headers)
	var missing []string
	for field, header := range explicit {
		want := normalizeHeader(header)
		found := -1
		for i, h := range headers {
			if normalizeHeader(h) == want {
				found = i
				break
			}
		}
		if found < 0 {
			missing = append(missing, header)
			continue
		}
		for f, column := range mapping {
			if column == found {
				delete(mapping, f)
			}
		}
		mapping[field] = found
	}
	sort.Strings(missing)
	return mapping, missing
}

func scoreHeader(header string, field Field) float64 {
	best := 0.0
	for _, alias := range fieldAliases[field] {
		var score float64
		switch {
		case header == alias:
			score = 1
		case strings.Contains(header, alias) || (len(header) >= 3 && strings.Contains(alias, header)):
			score = 0.8
		default:
			score = tokenOverlap(header, alias)
		}
		if score > best {
			best = score
		}
	}
	return best
}

func tokenOverlap(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}
	set := make(map[string]bool, len(aTokens))
	for _, t := range aTokens {
		set[t] = true
	}
	shared := 0
	seen := make(map[string]bool)
	for _, t := range bTokens {
		if set[t] && !seen[t] {
			shared++
			seen[t] = true
		}
	}
	union := len(set) + len(bTokens) - shared
	return float64(shared) / float64(union)
}

func normalizeHeader(header string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, header)
	return strings.Join(strings.Fields(mapped), " ")
}
