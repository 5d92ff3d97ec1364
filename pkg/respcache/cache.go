package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bizmail-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

const (
	keyPrefix = "bizmail"

	NamespaceAnalysis   = "analysis"
	NamespaceGeneration = "generation"

	ttlAnalysisHours   = 24
	ttlGenerationHours = 12
)

// ResponseCache memoizes expensive generation/analysis results by content
// hash. Disabled by default: all operations degrade to miss/false/0 while
// disabled. Internal failures never propagate to the caller.
type ResponseCache struct {
	enabled bool
	store   *gocache.Cache
	logger  logger.ILogger
}

func New(enabled bool, log logger.ILogger) *ResponseCache {
	// Purge expired entries every 10 minutes; per-entry TTLs are set on write.
	c := gocache.New(gocache.NoExpiration, 10*time.Minute)
	return &ResponseCache{
		enabled: enabled,
		store:   c,
		logger:  log,
	}
}

func (c *ResponseCache) IsEnabled() bool {
	return c.enabled
}

// generateKey canonicalizes the argument tuple as a JSON array (map keys are
// serialized in sorted order) and hashes it with SHA-256.
func (c *ResponseCache) generateKey(namespace string, args ...interface{}) (string, error) {
	if args == nil {
		args = []interface{}{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%s", keyPrefix, namespace, hex.EncodeToString(sum[:])), nil
}

// Get returns the cached value for the namespace and argument tuple.
// Misses, expired entries, disabled cache, and key-derivation failures all
// report (nil, false).
func (c *ResponseCache) Get(namespace string, args ...interface{}) (interface{}, bool) {
	if !c.enabled {
		return nil, false
	}

	key, err := c.generateKey(namespace, args...)
	if err != nil {
		c.logger.Warn("cache", "Key derivation failed, treating as miss", map[string]interface{}{
			"namespace": namespace,
			"error":     err.Error(),
		})
		return nil, false
	}

	// go-cache treats expired entries as absent; the janitor purges them.
	if value, found := c.store.Get(key); found {
		c.logger.Debug("cache", "HIT", map[string]interface{}{"namespace": namespace})
		return value, true
	}
	c.logger.Debug("cache", "MISS", map[string]interface{}{"namespace": namespace})
	return nil, false
}

// Set stores the value under the derived key with a TTL in hours. Returns
// false while disabled or when the key cannot be derived.
func (c *ResponseCache) Set(namespace string, value interface{}, ttlHours int, args ...interface{}) bool {
	if !c.enabled {
		return false
	}

	key, err := c.generateKey(namespace, args...)
	if err != nil {
		c.logger.Warn("cache", "Key derivation failed, skipping write", map[string]interface{}{
			"namespace": namespace,
			"error":     err.Error(),
		})
		return false
	}

	c.store.Set(key, value, time.Duration(ttlHours)*time.Hour)
	c.logger.Debug("cache", "SET", map[string]interface{}{
		"namespace": namespace,
		"ttl_hours": ttlHours,
	})
	return true
}

// ClearPattern removes every live entry whose key starts with the global
// prefix plus pattern and returns the removed count.
func (c *ResponseCache) ClearPattern(pattern string) int {
	if !c.enabled {
		return 0
	}

	fullPrefix := keyPrefix + ":" + pattern
	count := 0
	for key := range c.store.Items() {
		if strings.HasPrefix(key, fullPrefix) {
			c.store.Delete(key)
			count++
		}
	}
	if count > 0 {
		c.logger.Info("cache", "Cleared entries by pattern", map[string]interface{}{
			"pattern": pattern,
			"count":   count,
		})
	}
	return count
}

func (c *ResponseCache) GetAnalysis(subject, body, companyContext string) (interface{}, bool) {
	return c.Get(NamespaceAnalysis, subject, body, companyContext)
}

func (c *ResponseCache) SetAnalysis(subject, body, companyContext string, result interface{}) bool {
	return c.Set(NamespaceAnalysis, result, ttlAnalysisHours, subject, body, companyContext)
}

// generationArgs normalizes the optional fields so that "absent" and "empty"
// derive the same key.
func generationArgs(sourceSubject, sourceBody, companyContext, parametersHash string, threadHistory *string, extraDirectives []string, customPrompt *string) []interface{} {
	history := ""
	if threadHistory != nil {
		history = *threadHistory
	}
	if extraDirectives == nil {
		extraDirectives = []string{}
	}
	directivesJSON, _ := json.Marshal(extraDirectives)
	prompt := ""
	if customPrompt != nil {
		prompt = *customPrompt
	}
	return []interface{}{
		sourceSubject,
		sourceBody,
		companyContext,
		parametersHash,
		history,
		string(directivesJSON),
		prompt,
	}
}

func (c *ResponseCache) GetGeneration(sourceSubject, sourceBody, companyContext, parametersHash string, threadHistory *string, extraDirectives []string, customPrompt *string) (interface{}, bool) {
	args := generationArgs(sourceSubject, sourceBody, companyContext, parametersHash, threadHistory, extraDirectives, customPrompt)
	return c.Get(NamespaceGeneration, args...)
}

func (c *ResponseCache) SetGeneration(sourceSubject, sourceBody, companyContext, parametersHash string, result interface{}, threadHistory *string, extraDirectives []string, customPrompt *string) bool {
	args := generationArgs(sourceSubject, sourceBody, companyContext, parametersHash, threadHistory, extraDirectives, customPrompt)
	return c.Set(NamespaceGeneration, result, ttlGenerationHours, args...)
}
