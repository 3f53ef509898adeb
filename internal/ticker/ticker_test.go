package ticker

import (
	"reflect"
	"testing"
)

func TestDetectPairsPerToken(t *testing.T) {
	got := Detect("INFY shares surge on strong quarterly results, IPO plans in focus")
	want := []string{"INFY", "INFY.NS", "IPO", "IPO.NS"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDetectLayout(t *testing.T) {
	// output[2i] is the bare token, output[2i+1] the .NS variant.
	got := Detect("TCS beats SBI and ONGC estimates")
	if len(got)%2 != 0 {
		t.Fatalf("expected even candidate count, got %d", len(got))
	}
	for i := 0; i < len(got); i += 2 {
		if got[i+1] != got[i]+NSESuffix {
			t.Errorf("candidate pair %d: %q then %q, want %q", i/2, got[i], got[i+1], got[i]+NSESuffix)
		}
	}
	if len(got) != 6 {
		t.Fatalf("got %d candidates, want 6", len(got))
	}
}

func TestDetectTokenBounds(t *testing.T) {
	cases := []struct {
		title string
		want  int // matched token count
	}{
		{"AB rises", 1},                      // 2 letters: minimum
		{"ABCDEF rises", 1},                  // 6 letters: maximum
		{"A rises", 0},                       // 1 letter: too short
		{"ABCDEFG rises", 0},                 // 7 letters: too long
		{"Sensex gains on budget hopes", 0},  // no all-caps run
		{"lowercase abc only", 0},            // lowercase does not match
		{"MidCAPS mixed", 0},                 // caps run not boundary-delimited
	}
	for _, tc := range cases {
		got := Detect(tc.title)
		if len(got) != 2*tc.want {
			t.Errorf("Detect(%q) = %v, want %d tokens", tc.title, got, tc.want)
		}
	}
}

func TestDetectKeepsDuplicates(t *testing.T) {
	got := Detect("TCS up, TCS results beat")
	want := []string{"TCS", "TCS.NS", "TCS", "TCS.NS"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDetectEmpty(t *testing.T) {
	if got := Detect("Markets end flat ahead of holiday"); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"reliance": "RELIANCE",
		"RIL":      "RELIANCE",
		" infy ":   "INFY",
		"$TCS":     "TCS",
		"SBI":      "SBIN",
		"UNKNOWN":  "UNKNOWN",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToYahoo(t *testing.T) {
	cases := map[string]string{
		"RELIANCE":    "RELIANCE.NS",
		"reliance":    "RELIANCE.NS",
		"INFY.NS":     "INFY.NS",
		"TATASTEEL.BO": "TATASTEEL.BO",
	}
	for in, want := range cases {
		if got := ToYahoo(in); got != want {
			t.Errorf("ToYahoo(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromYahoo(t *testing.T) {
	if got := FromYahoo("RELIANCE.NS"); got != "RELIANCE" {
		t.Errorf("FromYahoo(RELIANCE.NS) = %q", got)
	}
	if got := FromYahoo("TCS"); got != "TCS" {
		t.Errorf("FromYahoo(TCS) = %q", got)
	}
}
