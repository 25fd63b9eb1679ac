package lambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// FromAPIGateway converts an API Gateway proxy event to a generic request
func FromAPIGateway(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, err
		}
		body = decoded
	}

	headers := make(map[string]string, len(event.Headers)+len(event.MultiValueHeaders))
	for k, values := range event.MultiValueHeaders {
		headers[k] = strings.Join(values, ",")
	}
	for k, v := range event.Headers {
		headers[k] = v
	}

	query := make(map[string]string, len(event.QueryStringParameters)+len(event.MultiValueQueryStringParameters))
	for k, values := range event.MultiValueQueryStringParameters {
		if len(values) > 0 {
			query[k] = values[0]
		}
	}
	for k, v := range event.QueryStringParameters {
		query[k] = v
	}

	return &Request{
		Method:      strings.ToUpper(event.HTTPMethod),
		Path:        event.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

// ToAPIGateway converts a generic response to an API Gateway proxy response
func ToAPIGateway(resp *Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}

// APIGatewayHandler adapts a HandlerFunc to the aws-lambda-go proxy signature.
// Errors are never returned to the runtime; every failure becomes a JSON 500.
func APIGatewayHandler(h HandlerFunc, logger *logrus.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if logger == nil {
		logger = logrus.New()
	}
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := FromAPIGateway(event)
		if err != nil {
			logger.WithError(err).Warn("Failed to decode request body")
			return internalError("Invalid request body encoding", http.StatusBadRequest), nil
		}

		resp, err := h(ctx, req)
		if err != nil || resp == nil {
			fields := logrus.Fields{"method": req.Method, "path": req.Path}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.WithFields(fields).Error("Handler failed")
			return internalError("Internal server error", http.StatusInternalServerError), nil
		}

		return ToAPIGateway(resp), nil
	}
}

func internalError(message string, status int) events.APIGatewayProxyResponse {
	body := `{"error":"` + message + `"}`
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json; charset=utf-8",
			"Access-Control-Allow-Origin": "*",
		},
		Body: body,
	}
}
