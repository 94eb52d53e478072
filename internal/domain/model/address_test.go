package model

import (
	"errors"
	"testing"
)

func TestIsAddress(t *testing.T) {
	valid := []string{
		"0x000000000000000000000000000000000000dEaD",
		"0x000000000000000000000000000000000000dead",
		"0x000000000000000000000000000000000000DEAD",
		"0xdAC17F958D2ee523a2206206994597C13D831ec7",
		"dAC17F958D2ee523a2206206994597C13D831ec7",
		"0xdac17f958d2ee523a2206206994597c13d831ec7",
	}
	for _, s := range valid {
		if !IsAddress(s) {
			t.Fatalf("IsAddress(%q)=false", s)
		}
	}

	invalid := []string{
		"",
		"0xInvalid",
		"0x1234",
		"0x000000000000000000000000000000000000dEaD00",
		"0xgggggggggggggggggggggggggggggggggggggggg",
		// 混合大小写但校验和错误
		"0xDAC17F958D2ee523a2206206994597C13D831ec7",
		" 0x000000000000000000000000000000000000dead",
	}
	for _, s := range invalid {
		if IsAddress(s) {
			t.Fatalf("IsAddress(%q)=true", s)
		}
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("address", "0x000000000000000000000000000000000000dead")
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if addr.Hex() != "0x000000000000000000000000000000000000dEaD" {
		t.Fatalf("hex=%s", addr.Hex())
	}

	_, err = ParseAddress("recipientAddress", "0xInvalid")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("want *Error, got %T", err)
	}
	if e.Kind != KindInvalidInput || e.Field != "recipientAddress" {
		t.Fatalf("kind=%s field=%s", e.Kind, e.Field)
	}
}
