package aliases

import "testing"

func TestNormalize(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips leading article", in: "The Cat", want: "cat"},
		{name: "strips punctuation", in: "the cat!!", want: "cat"},
		{name: "apostrophes collapse", in: "Maggie's Drowsy", want: "maggies drowsy"},
		{name: "uppercase article", in: "THE BUCKS OF ORANMORE", want: "bucks of oranmore"},
		{name: "digits are kept", in: "Reel #3", want: "reel 3"},
		{name: "article alone becomes empty", in: "The ", want: ""},
		{name: "article without trailing space is kept", in: "the", want: "the"},
		{name: "punctuation only", in: "...", want: ""},
		{name: "empty", in: "", want: ""},
		{name: "accented letters survive", in: "Théâtre", want: "théâtre"},
		{name: "leading whitespace hides the article", in: "  The   Silver Spear ", want: "the   silver spear"},
		{name: "article removed once", in: "the the cat", want: "the cat"},
		{name: "ascii separators trimmed", in: "\x1cCat\x1d", want: "cat"},
		{name: "inner separator kept", in: "Cat\x1fDog", want: "cat\x1fdog"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Cat", "The The", "Maggie's Drowsy",
		"O'Sullivan's March", "...", "", "Théâtre", "The\tKesh", "the  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeSinglePass(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{in: "the the cat", want: "cat"},
		{in: "  The   Silver Spear ", want: "silver spear"},
	}
	for _, tt := range tc {
		if got := Normalize(Normalize(tt.in)); got != tt.want {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
