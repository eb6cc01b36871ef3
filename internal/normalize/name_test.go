package normalize

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "latin spacing and case", input: "  Chirayu   Sanjay  GIRI ", want: "chirayu sanjay giri"},
		{name: "punctuation becomes space", input: "O'Brien, John.", want: "o brien john"},
		{name: "underscore is punctuation", input: "Ramesh_Patil", want: "ramesh patil"},
		{name: "initials and brackets", input: "A.B. Shah (HUF)", want: "a b shah huf"},
		{name: "tabs and newlines", input: "ravi\t\nkumar", want: "ravi kumar"},
		{name: "devanagari untouched", input: "चिरायु संजय गिरी", want: "चिरायु संजय गिरी"},
		{name: "devanagari punctuation", input: "चिरायु, संजय-गिरी", want: "चिरायु संजय गिरी"},
		{name: "decomposed accents are composed", input: "Jose\u0301 Pe\u0301rez", want: "jos\u00e9 p\u00e9rez"},
		{name: "only punctuation", input: "--//..", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Chirayu Sanjay Giri",
		"चिरायु, संजय-गिरी!!",
		"राम kumar (HUF)",
		"İstanbul Traders",
		"José Pérez",
		"  \u0301 leading mark",
	}

	for _, in := range inputs {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), "input %q", in)
	}
}

func FuzzNormalizeName(f *testing.F) {
	f.Add("Chirayu Sanjay Giri")
	f.Add("चिरायु संजय गिरी")
	f.Add("A.B. Shah (HUF)")
	f.Add("İstanbul")

	f.Fuzz(func(t *testing.T, in string) {
		if !utf8.ValidString(in) {
			t.Skip()
		}
		once := NormalizeName(in)
		if twice := NormalizeName(once); twice != once {
			t.Errorf("NormalizeName not idempotent: %q -> %q -> %q", in, once, twice)
		}
	})
}

func TestCanonicalizeIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"abcde1234f", "ABCDE1234F"},
		{"ABCDE 1234F", "ABCDE1234F"},
		{" abcde\t1234 f\n", "ABCDE1234F"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CanonicalizeIdentifier(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, CanonicalizeIdentifier(got))
		})
	}

	assert.Equal(t, CanonicalizeIdentifier("abcde1234f"), CanonicalizeIdentifier("ABCDE 1234F"))
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		input string
		want  Script
	}{
		{"", Latin},
		{"chirayu giri", Latin},
		{"José", Latin},
		{"चिरायु", Devanagari},
		{"ram राम", Devanagari},
		{"१२३", Devanagari},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectScript(tt.input))
		})
	}
}

func TestComparisonForm(t *testing.T) {
	assert.Equal(t, "chirayu sanjay giri", ComparisonForm("चिरायु संजय गिरी"))
	assert.Equal(t, "chirayu sanjay giri", ComparisonForm("Chirayu  Sanjay Giri"))
	assert.Equal(t, "", ComparisonForm(""))
}
