package cache

import (
	"crypto/sha1"
	"fmt"
	"time"
)

const (
	LLMReplyTTL = 24 * time.Hour
)

// LLMReplyKey generates the key for a cached product assessment reply.
// Replies are deterministic (temperature 0), so provider, model and the rendered
// patent and product prompt text fully identify one. Editing a patent asset
// changes its text and therefore its key.
func LLMReplyKey(provider, model, patentID, patentText, productText string) string {
	hash := sha1.Sum([]byte(fmt.Sprintf("%s|%s|%s|%s|%s", provider, model, patentID, patentText, productText)))
	return fmt.Sprintf("cache:v2:llm:assess:%x", hash)
}
