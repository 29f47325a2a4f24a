package models

import (
	"encoding/json"
	"testing"
)

func TestFeeConditionsScanAcceptsStringAndBytes(t *testing.T) {
	raw := `[{"key":"categoryId","operator":"in","value":["food","drink"]}]`

	var fromString FeeConditions
	if err := fromString.Scan(raw); err != nil {
		t.Fatalf("scan string failed: %v", err)
	}
	var fromBytes FeeConditions
	if err := fromBytes.Scan([]byte(raw)); err != nil {
		t.Fatalf("scan bytes failed: %v", err)
	}
	if len(fromString) != 1 || len(fromBytes) != 1 {
		t.Fatalf("conditions len want 1 got %d/%d", len(fromString), len(fromBytes))
	}
	values, ok := fromBytes[0].Value.([]interface{})
	if !ok || len(values) != 2 {
		t.Fatalf("in condition value should decode as list, got %#v", fromBytes[0].Value)
	}
}

func TestFeeConditionsNilValueIsEmptyList(t *testing.T) {
	var conditions FeeConditions
	value, err := conditions.Value()
	if err != nil {
		t.Fatalf("value failed: %v", err)
	}
	if value != "[]" {
		t.Fatalf("nil conditions want [] got %v", value)
	}
}

func TestMoneyUnmarshalNumberKeepsPrecision(t *testing.T) {
	var payload struct {
		Amount Money `json:"amount"`
	}
	if err := json.Unmarshal([]byte(`{"amount":100000.005}`), &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if payload.Amount.String() != "100000.01" {
		t.Fatalf("amount want 100000.01 got %s", payload.Amount.String())
	}
	if err := json.Unmarshal([]byte(`{"amount":null}`), &payload); err != nil {
		t.Fatalf("unmarshal null failed: %v", err)
	}
}
