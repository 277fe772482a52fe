package dataset

import (
	"errors"
	"testing"
)

func TestNormalizeTypes(t *testing.T) {
	cases := map[string][]string{
		"Fungicide and Herbicide": {"fungicide", "herbicide"},
		"Insecticide, Acaricide":  {"insecticide", "acaricide"},
		"Plant growth regulator":  {"plantgrowthregulator"},
		"Fungicide and fungicide": {"fungicide"},
		"Rodenticide, Candidate":  {"rodenticide", "candidate"},
		"":                        {Unknown},
		" , ":                     {Unknown},
	}
	for in, want := range cases {
		got := NormalizeTypes(in)
		if !equal(got, want) {
			t.Errorf("NormalizeTypes(%q) = %q, want %q", in, got, want)
		}
	}
}

// "and" only separates labels as a whole word; a plain substring split
// would turn "Candidate" into "c,idate".
func TestNormalizeTypesKeepsAndInsideWords(t *testing.T) {
	cases := map[string][]string{
		"Candidate":                        {"candidate"},
		"Brand and Standard":               {"brand", "standard"},
		"Mandipropamid Fungicide":          {"mandipropamidfungicide"},
		"Insecticide and Andean repellent": {"insecticide", "andeanrepellent"},
		"Herbicide AND Fungicide":          {"herbicide", "fungicide"},
	}
	for in, want := range cases {
		got := NormalizeTypes(in)
		if !equal(got, want) {
			t.Errorf("NormalizeTypes(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeFamilies(t *testing.T) {
	cases := map[string][]string{
		"Carboxamide":          {"carboxamide"},
		"Amidine  Formamidine": {"amidine", "formamidine"},
		"fungicide,herbicide":  {"fungicide", "herbicide"},
		"Triazole, Triazole":   {"triazole"},
		"":                     {Unknown},
	}
	for in, want := range cases {
		got := NormalizeFamilies(in)
		if !equal(got, want) {
			t.Errorf("NormalizeFamilies(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory("HM"); err != nil || c != CategoryHeavyMetal {
		t.Fatalf("HM -> %q, %v", c, err)
	}
	if c, err := ParseCategory("Pesticides"); err != nil || c != CategoryPesticide {
		t.Fatalf("Pesticides -> %q, %v", c, err)
	}
	if _, err := ParseCategory("pesticides"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
