package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Decoder names the strategy that accepted a payload.
type Decoder string

const (
	DecoderJSON     Decoder = "json"
	DecoderRepaired Decoder = "json-repair"
	DecoderHJSON    Decoder = "hjson"
)

// SmartParse decodes a hand-typed request payload into v. Strict JSON is
// tried first, then json-repair (single quotes, trailing commas, unclosed
// braces), then Hjson (comments, unquoted keys). The first decoder whose
// output also fits v wins.
func SmartParse(input string, v interface{}) (Decoder, error) {
	if err := json.Unmarshal([]byte(input), v); err == nil {
		return DecoderJSON, nil
	}

	if repaired, err := jsonrepair.RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return DecoderRepaired, nil
		}
	}

	if normalized, err := hjsonToJSON(input); err == nil {
		if err := json.Unmarshal(normalized, v); err == nil {
			return DecoderHJSON, nil
		}
	}

	return "", fmt.Errorf("payload is not JSON, repairable JSON or Hjson")
}

func hjsonToJSON(input string) ([]byte, error) {
	var tree interface{}
	if err := hjson.Unmarshal([]byte(input), &tree); err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}
