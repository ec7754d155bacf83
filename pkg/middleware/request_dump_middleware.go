package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"inkwell-report-backend/utilities"
)

// maxDumpBytes caps how much of a body is logged.
const maxDumpBytes = 4096

const redacted = "[REDACTED]"

// RequestDumpMiddleware logs method, URL, headers and body of every request
// at debug level. Credential headers are dropped and credential fields of a
// JSON body are redacted; other bodies are logged by size only. The body is
// restored for downstream handlers.
func RequestDumpMiddleware(log *utilities.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		headers := c.Request.Header.Clone()
		headers.Del("Authorization")
		headers.Del("Cookie")

		log.Debug("request dump",
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"headers", headers,
			"params", c.Params,
			"body", dumpBody(bodyBytes),
		)

		c.Next()
	}
}

func dumpBody(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Sprintf("[%d bytes, not JSON]", len(body))
	}
	out, err := json.Marshal(redactJSON(doc))
	if err != nil {
		return fmt.Sprintf("[%d bytes]", len(body))
	}
	if len(out) > maxDumpBytes {
		out = out[:maxDumpBytes]
	}
	return string(out)
}

func redactJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if utilities.IsSecretKey(k) {
				t[k] = redacted
				continue
			}
			t[k] = redactJSON(child)
		}
	case []interface{}:
		for i, child := range t {
			t[i] = redactJSON(child)
		}
	}
	return v
}
