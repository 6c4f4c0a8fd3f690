package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey  = "response_meta"
	requestStartKey  = "response_meta_start"
	cacheHitKey      = "cache_hit"
	catalogLoadedKey = "catalogs_loaded"
	processingKey    = "processing_time_ms"
)

// WithResponseMeta initialises response metadata storage on the request context.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requestStartKey, time.Now())
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether a catalog list was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// SetCatalogsLoaded records whether every catalog was available when the response was built. Clients
// use it to tell a "Loading..." reference from an unknown one.
func SetCatalogsLoaded(c *gin.Context, loaded bool) {
	ensureMeta(c)[catalogLoadedKey] = loaded
}

// ExtractMeta returns the metadata map stored on the context.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	return nil
}

// ResponseMeta returns a copy of the collected metadata stamped with the processing time so far.
// Handlers call it right before writing the envelope.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	meta := make(map[string]interface{})
	for key, value := range ExtractMeta(c) {
		meta[key] = value
	}
	if c == nil {
		return meta
	}
	if start, ok := c.Get(requestStartKey); ok {
		if started, ok := start.(time.Time); ok {
			meta[processingKey] = time.Since(started).Milliseconds()
		}
	}
	return meta
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta := ExtractMeta(c); meta != nil {
		return meta
	}
	newMeta := make(map[string]interface{})
	c.Set(responseMetaKey, newMeta)
	return newMeta
}
