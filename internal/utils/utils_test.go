package utils

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{59 * time.Second, "00:59"},
		{60 * time.Second, "01:00"},
		{3*time.Minute + 500*time.Millisecond, "03:00"},
		{61*time.Minute + 1*time.Second, "01:01:01"},
		{25*time.Hour + 45*time.Minute + 30*time.Second, "25:45:30"},
	}

	for _, test := range tests {
		result := FormatDuration(test.duration)
		if result != test.expected {
			t.Errorf("FormatDuration(%v) = %s; expected %s", test.duration, result, test.expected)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		position time.Duration
		duration time.Duration
		expected string
	}{
		{0, 0, "00:00 / --:--"},
		{65 * time.Second, 3 * time.Minute, "01:05 / 03:00"},
		{10 * time.Second, -1, "00:10 / --:--"},
	}

	for _, test := range tests {
		result := FormatProgress(test.position, test.duration)
		if result != test.expected {
			t.Errorf("FormatProgress(%v, %v) = %s; expected %s", test.position, test.duration, result, test.expected)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, test := range tests {
		result := FormatFileSize(test.size)
		if result != test.expected {
			t.Errorf("FormatFileSize(%d) = %s; expected %s", test.size, result, test.expected)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10", 10, "exactly10"},
		{"this is a very long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"abcde", 4, "a..."},
		{"привет мир", 7, "прив..."},
	}

	for _, test := range tests {
		result := TruncateString(test.input, test.maxLen)
		if result != test.expected {
			t.Errorf("TruncateString(%s, %d) = %s; expected %s", test.input, test.maxLen, result, test.expected)
		}
	}
}
