package hints

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ternarybob/candle/internal/interfaces"
)

// Defaults used when a generated response omits a fun fact.
const (
	DefaultFunFact1 = "This company has an interesting history in its industry."
	DefaultFunFact2 = "The company has made significant contributions to its sector."
)

var (
	errEmptyResponse = errors.New("empty response")
	errNoRating      = errors.New("no rating in response")
)

const (
	labelDescription = "DESCRIPTION:"
	labelFunFact1    = "FUN FACT 1:"
	labelFunFact2    = "FUN FACT 2:"
)

// ParseHintText extracts the description and fun facts from a model response.
//
// The labelled-line format is expected. Some models answer with a JSON object
// instead; that is repaired and decoded. When neither yields a description the
// whole response is used as the description. Missing fun facts get defaults.
func ParseHintText(text string) (*interfaces.HintText, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.Trim(text, `"`))
	if text == "" {
		return nil, errEmptyResponse
	}

	result := parseLabelled(text)
	if result.Description == "" {
		if fromJSON, ok := parseJSON(text); ok {
			result = fromJSON
		}
	}
	if result.Description == "" {
		result.Description = text
	}
	if result.FunFact1 == "" {
		result.FunFact1 = DefaultFunFact1
	}
	if result.FunFact2 == "" {
		result.FunFact2 = DefaultFunFact2
	}
	return &result, nil
}

func parseLabelled(text string) interfaces.HintText {
	var result interfaces.HintText
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*#- "))
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, labelDescription):
			result.Description = cleanValue(line[len(labelDescription):])
		case strings.HasPrefix(upper, labelFunFact1):
			result.FunFact1 = cleanValue(line[len(labelFunFact1):])
		case strings.HasPrefix(upper, labelFunFact2):
			result.FunFact2 = cleanValue(line[len(labelFunFact2):])
		}
	}
	return result
}

type jsonHints struct {
	Description string `json:"description"`
	FunFact1    string `json:"funFact1"`
	FunFact2    string `json:"funFact2"`
}

func parseJSON(text string) (interfaces.HintText, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 {
		return interfaces.HintText{}, false
	}
	candidate := text[start:]
	if end > start {
		candidate = text[start : end+1]
	}

	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return interfaces.HintText{}, false
	}

	var parsed jsonHints
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return interfaces.HintText{}, false
	}
	return interfaces.HintText{
		Description: strings.TrimSpace(parsed.Description),
		FunFact1:    strings.TrimSpace(parsed.FunFact1),
		FunFact2:    strings.TrimSpace(parsed.FunFact2),
	}, parsed.Description != ""
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "**")
	return strings.TrimSpace(strings.Trim(v, `"`))
}

// ParseDifficulty reads the first character of a rating response as a 1..5 digit.
func ParseDifficulty(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errEmptyResponse
	}
	digit := int(text[0] - '0')
	if digit < 1 || digit > 5 {
		return 0, errNoRating
	}
	return digit, nil
}
