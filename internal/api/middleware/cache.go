package middleware

import (
	"bytes"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cachedResponse сохраненный ответ для повторной отдачи
type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// captureWriter буферизует ответ перед сохранением в кэш
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// ResponseCache кэш GET ответов с коротким TTL.
// Статус машин опрашивается фронтендом часто, а меняется раз в цикл
// опроса фида, поэтому успешные ответы отдаются из кэша
type ResponseCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewResponseCache создает кэш ответов с указанным TTL
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Middleware отдает закэшированный ответ, если он еще свежий.
// Кэшируются только успешные GET ответы, ключ - полный URL запроса
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if entry, found := c.cache.Get(key); found {
			resp := entry.(cachedResponse)
			w.Header().Set("Content-Type", resp.contentType)
			w.WriteHeader(resp.status)
			_, _ = w.Write(resp.body)
			return
		}

		capture := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(capture, r)

		if capture.status == http.StatusOK {
			c.cache.Set(key, cachedResponse{
				status:      capture.status,
				contentType: capture.Header().Get("Content-Type"),
				body:        capture.buf.Bytes(),
			}, c.ttl)
		}
	})
}
