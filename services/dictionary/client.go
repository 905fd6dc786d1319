package dictionary

import (
	redis_service "Maru/services/redis"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

/*
 * Client wraps the external Korean dictionary service used for jamo word
 * validation. Lookups have a bounded timeout and a fail-closed verdict:
 * when the service is unreachable the word is treated as not valid and
 * the caller reports the dependency failure, the round never hangs.
 * Verdicts are cached in Redis so repeated submissions are cheap.
 */
type Client struct {
	baseURL string
	http    *http.Client
	cache   *redis_service.RedisClient
}

func NewClient(baseURL string, cache *redis_service.RedisClient) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 3 * time.Second},
		cache:   cache,
	}
}

type lookupResponse struct {
	Found bool `json:"found"`
}

// Lookup reports whether the dictionary knows the (already composed)
// word. The error is non-nil only for dependency failures; "not a word"
// is (false, nil).
func (c *Client) Lookup(word string) (bool, error) {
	if c.cache != nil {
		if found, cached, err := c.cache.GetDictionaryVerdict(word); err == nil && cached {
			return found, nil
		}
	}

	reqURL := fmt.Sprintf("%s/words?q=%s", c.baseURL, url.QueryEscape(word))
	resp, err := c.http.Get(reqURL)
	if err != nil {
		return false, fmt.Errorf("dictionary request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.cacheVerdict(word, false)
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("dictionary returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("dictionary response malformed: %v", err)
	}

	c.cacheVerdict(word, body.Found)
	return body.Found, nil
}

func (c *Client) cacheVerdict(word string, found bool) {
	if c.cache == nil {
		return
	}
	if err := c.cache.CacheDictionaryVerdict(word, found); err != nil {
		log.Printf("[DICT-WARN] Could not cache verdict for %q: %v", word, err)
	}
}
