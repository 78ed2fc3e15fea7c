package utils

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestGetUsername(t *testing.T) {
	name, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if name == "" {
		t.Errorf("Expected non-empty username")
	}
}

func TestReadPasswordLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"NoNewline", "hunter2", "hunter2"},
		{"Newline", "hunter2\n", "hunter2"},
		{"CRLF", "hunter2\r\n", "hunter2"},
		{"OnlyFirstLine", "first\nsecond\n", "first"},
		{"KeepsSpaces", " pass word \n", " pass word "},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadPasswordLine(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ReadPasswordLine failed: %v", err)
			}
			if string(got) != tc.expected {
				t.Errorf("ReadPasswordLine(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestReadPasswordLineError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := ReadPasswordLine(iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Errorf("Expected read error, got: %v", err)
	}
}

func TestReadPasswordLineLeavesRestUnread(t *testing.T) {
	r := strings.NewReader("first\nsecond\n")
	got, err := ReadPasswordLine(r)
	if err != nil {
		t.Fatalf("ReadPasswordLine failed: %v", err)
	}
	if string(got) != "first" {
		t.Errorf("Expected %q, got %q", "first", got)
	}
	if rest, _ := io.ReadAll(r); string(rest) != "second\n" {
		t.Errorf("Expected the second line to stay unread, got %q", rest)
	}
}

func TestReadPasswordLineLongInput(t *testing.T) {
	long := strings.Repeat("x", 200)
	got, err := ReadPasswordLine(strings.NewReader(long + "\n"))
	if err != nil {
		t.Fatalf("ReadPasswordLine failed: %v", err)
	}
	if string(got) != long {
		t.Errorf("Expected %d bytes, got %d", len(long), len(got))
	}
}

func TestWipe(t *testing.T) {
	b := []byte("hunter2")
	wipe(b)
	for i, c := range b {
		if c != 0 {
			t.Fatalf("Byte %d not zeroed: %q", i, c)
		}
	}
}

func TestPlural(t *testing.T) {
	tests := map[int]string{0: "0 secrets", 1: "1 secret", 2: "2 secrets"}
	for n, expected := range tests {
		if got := Plural(n, "secret"); got != expected {
			t.Errorf("Plural(%d) = %q, expected %q", n, got, expected)
		}
	}
}

func TestFormatPaths(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	got := FormatPaths([]string{"db/prod", "db/staging"})
	expected := "\n    - db/prod\n    - db/staging\n"
	if got != expected {
		t.Errorf("FormatPaths = %q, expected %q", got, expected)
	}
}
