package engine

import (
	"errors"
	"slices"
	"testing"
)

func TestParseTickers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr error
	}{
		{name: "single", input: "GOOG", want: []string{"GOOG"}},
		{name: "pair", input: "GOOG,TSLA", want: []string{"GOOG", "TSLA"}},
		{name: "whitespace", input: "  GOOG ,\tTSLA  ", want: []string{"GOOG", "TSLA"}},
		{name: "empty segments", input: ",GOOG,,TSLA,", want: []string{"GOOG", "TSLA"}},
		{name: "duplicates", input: "GOOG,GOOG,TSLA", want: []string{"GOOG", "TSLA"}},
		{name: "four", input: "A,B,C,D", want: []string{"A", "B", "C", "D"}},
		{name: "five after dedupe is four", input: "A,B,C,D,A", want: []string{"A", "B", "C", "D"}},
		{name: "empty", input: "", wantErr: ErrNoTickers},
		{name: "blank", input: "   ", wantErr: ErrNoTickers},
		{name: "commas", input: ",,,", wantErr: ErrNoTickers},
		{name: "five", input: "A,B,C,D,E", wantErr: ErrTooManyTickers},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTickers(tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ParseTickers(%q) error = %v; want %v", tc.input, err, tc.wantErr)
				}
				if KindOf(err) != KindValidation {
					t.Errorf("kind = %v; want validation", KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTickers(%q) error: %v", tc.input, err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("ParseTickers(%q) = %v; want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestStage_Text(t *testing.T) {
	for _, s := range []Stage{StageIdle, StageFetchingSources, StageGeneratingScript, StageGeneratingAudio} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error: %v", s, err)
		}
		var got Stage
		if err := got.UnmarshalText(b); err != nil || got != s {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", b, got, err, s)
		}
	}

	var s Stage
	if err := s.UnmarshalText([]byte("sleeping")); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestKindOf(t *testing.T) {
	wrapped := &Error{Kind: KindDecode, Err: errors.New("bad payload")}
	if KindOf(wrapped) != KindDecode {
		t.Errorf("KindOf = %v; want decode", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != 0 || KindOf(ErrBusy) != 0 {
		t.Error("KindOf of foreign error should be 0")
	}
	if wrapped.Error() != "bad payload" {
		t.Errorf("Error() = %q; want the wrapped message", wrapped.Error())
	}
}
