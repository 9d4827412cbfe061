package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

const maxAuditBody = 16384

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < maxAuditBody {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// AuditMiddleware 记录请求与响应，推荐流响应体较大只记录长度
func AuditMiddleware(skipBodyPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipBodyPaths))
	for _, p := range skipBodyPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var reqBody []byte
		if c.Request.Body != nil {
			reqBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(reqBody))
		}
		loggedBody := reqBody
		if len(loggedBody) > maxAuditBody {
			loggedBody = loggedBody[:maxAuditBody]
		}

		rawQuery := c.Request.URL.RawQuery
		decodedQuery, err := url.QueryUnescape(rawQuery)
		if err != nil {
			decodedQuery = rawQuery
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", decodedQuery),
			log.String("req_body", string(loggedBody)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		fields := []any{
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
		}
		if _, ok := skip[c.FullPath()]; ok {
			fields = append(fields, log.Int("res_size", c.Writer.Size()))
		} else {
			fields = append(fields, log.String("res_body", w.body.String()))
		}
		log.InfoContext(ctx, "Send Response", fields...)
	}
}
