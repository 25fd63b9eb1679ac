package lambda

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinHandler adapts a HandlerFunc so the same handler serves the local gin server
func GinHandler(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}

		headers := make(map[string]string, len(c.Request.Header))
		for k := range c.Request.Header {
			headers[k] = c.Request.Header.Get(k)
		}

		query := make(map[string]string)
		for k, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				query[k] = values[0]
			}
		}

		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		req := &Request{
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			Headers:     headers,
			QueryParams: query,
			Body:        body,
			PathParams:  params,
		}

		resp, err := h(c.Request.Context(), req)
		if err != nil || resp == nil {
			if err != nil {
				_ = c.Error(err)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		contentType := resp.Headers["Content-Type"]
		if contentType == "" {
			contentType = "application/json; charset=utf-8"
		}
		c.Data(resp.StatusCode, contentType, resp.Body)
	}
}
