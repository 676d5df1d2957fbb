package middleware

import (
	"errors"
	"net/http"

	"github.com/erp/logistics/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// bodyTooLargeMessage is shared by the middleware and handlers that hit the
// limit while decoding a streamed body
const bodyTooLargeMessage = "Request body exceeds maximum allowed size"

// BodyLimit rejects declared bodies above maxBytes with 413 and caps streamed
// ones. A non-positive maxBytes disables the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abort(c, dto.ErrCodeRequestTooLarge, bodyTooLargeMessage)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from reading past the BodyLimit cap
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// AbortBodyTooLarge answers 413 for a body that overran the cap while decoding
func AbortBodyTooLarge(c *gin.Context) {
	abort(c, dto.ErrCodeRequestTooLarge, bodyTooLargeMessage)
}
