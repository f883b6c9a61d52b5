package ollama

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

type ParseStatus uint8

const (
	Parsed ParseStatus = iota
	Empty
	Malformed
)

func (s ParseStatus) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Empty:
		return "empty"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

type generateResponse struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

// ParseGenerateBody extracts the "response" text from a /api/generate reply. When the trimmed
// body spans several lines only the last line is parsed, so streamed NDJSON fragments collapse
// to their final object. A missing or blank response is Empty; anything that is not a JSON
// object is Malformed and comes back with the decode error.
func ParseGenerateBody(body []byte) (string, ParseStatus, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", Malformed, errors.New("empty body")
	}
	if i := bytes.LastIndexByte(trimmed, '\n'); i >= 0 {
		trimmed = bytes.TrimSpace(trimmed[i+1:])
	}
	if len(trimmed) == 0 {
		return "", Malformed, errors.New("empty last line")
	}

	if trimmed[0] != '{' {
		return "", Malformed, errors.New("reply is not a JSON object")
	}
	var resp generateResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return "", Malformed, err
	}
	if resp.Response == nil || strings.TrimSpace(*resp.Response) == "" {
		return "", Empty, nil
	}
	return *resp.Response, Parsed, nil
}
