package indexer

import "testing"

func TestParseProgramID(t *testing.T) {
	key, err := ParseProgramID(" AWzFXDVYFkiFH5SqmHQ7BBYn4L94CxZwni68vsPmXcVe ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.String() != "AWzFXDVYFkiFH5SqmHQ7BBYn4L94CxZwni68vsPmXcVe" {
		t.Fatalf("key mismatch: %s", key)
	}

	for _, input := range []string{"", "not-base58!", "abc"} {
		if _, err := ParseProgramID(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
