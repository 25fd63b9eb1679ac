package handlers

import (
	"encoding/json"
	"net/http"

	"itinerary-api/pkg/lambda"
)

const contentTypeJSON = "application/json; charset=utf-8"

// ErrorResponse is the error envelope returned by every endpoint
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// writeJSON builds a response with a JSON content type, the given status and
// the serialized payload. A nil payload produces an empty body.
func writeJSON(status int, payload interface{}, headers map[string]string) *lambda.Response {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["Content-Type"] = contentTypeJSON

	if payload == nil {
		return &lambda.Response{StatusCode: status, Headers: out, Body: []byte{}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &lambda.Response{
			StatusCode: http.StatusInternalServerError,
			Headers:    out,
			Body:       []byte(`{"error":"failed to encode response"}`),
		}
	}

	return &lambda.Response{StatusCode: status, Headers: out, Body: body}
}

// writeError builds an error envelope response
func writeError(status int, message string, details map[string]interface{}, headers map[string]string) *lambda.Response {
	return writeJSON(status, ErrorResponse{Error: message, Context: details}, headers)
}
