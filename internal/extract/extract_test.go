package extract

import (
	"reflect"
	"testing"
)

func TestHashtags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", []string{}},
		{"no tags", "plain text without markers", []string{}},
		{"single", "talking about #go today", []string{"go"}},
		{"duplicates collapse", "#a #a #b", []string{"a", "b"}},
		{"order preserved", "#zebra then #apple", []string{"zebra", "apple"}},
		{"case not folded", "#Tech and #tech differ", []string{"Tech", "tech"}},
		{"underscore and digits", "#late_night #web3", []string{"late_night", "web3"}},
		{"punctuation ends token", "#go! #rust,ok", []string{"go", "rust"}},
		{"bare hash ignored", "just a # alone", []string{}},
		{"adjacent to text", "prefix#tag counts", []string{"tag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hashtags(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Hashtags(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestMentions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single", "hey @alice", []string{"alice"}},
		{"duplicates collapse", "@bob and @bob again", []string{"bob"}},
		{"mixed with hashtags", "@carol check #go", []string{"carol"}},
		{"bare at ignored", "user @ nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mentions(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Mentions(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtractionIsIdempotent(t *testing.T) {
	text := "#a #a #b @x @x mixed content #b"

	first := Hashtags(text)
	second := Hashtags(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Hashtags not idempotent: %v vs %v", first, second)
	}

	firstM := Mentions(text)
	secondM := Mentions(text)
	if !reflect.DeepEqual(firstM, secondM) {
		t.Errorf("Mentions not idempotent: %v vs %v", firstM, secondM)
	}
}
