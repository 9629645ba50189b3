package llm

import (
	"testing"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	input := `{"name": "Checkout flow", "description": "One-click purchase"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_PlainArray(t *testing.T) {
	input := `[{"name": "Persona A"}, {"name": "Persona B"}]`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_MarkdownCodeBlock(t *testing.T) {
	input := "Here are the suggestions:\n```json\n[{\"name\": \"Guest checkout\"}]\n```\nLet me know if you need more."
	expected := `[{"name": "Guest checkout"}]`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_NestedArraysAndObjects(t *testing.T) {
	input := `{"items": [{"nested": {"array": [1, 2, 3]}}]}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	input := `{"description": "Render as {placeholder} in the UI"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_EscapedQuotes(t *testing.T) {
	input := `{"name": "The \"fast\" path"}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not come up with any suggestions.")
	if err == nil {
		t.Fatal("expected error for response without JSON")
	}
}

func TestParseJSONResponse(t *testing.T) {
	type suggestion struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	response := "```json\n[{\"name\": \"A\", \"description\": \"one\"}, {\"name\": \"B\", \"description\": \"two\"}]\n```"
	result, err := ParseJSONResponse[[]suggestion](response)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(result))
	}
	if result[0].Name != "A" || result[1].Description != "two" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestParseJSONResponse_TypeMismatch(t *testing.T) {
	_, err := ParseJSONResponse[[]string](`{"not": "an array"}`)
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
}
