// internal/nlu/client.go
package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrUpstream covers every way the classifier can fail: unreachable,
// timeout, non-2xx, undecodable body. Callers reply with the generic
// fallback regardless of which one it was.
var ErrUpstream = errors.New("intent classifier unavailable")

// Classification is the classifier's verdict for one message. Entities is
// the canonical flat contract the dispatch handlers consume; Results only
// carries pre-computed search hits for search_products.
type Classification struct {
	Intent   string
	Entities map[string]string
	Results  []SearchResult
}

// Entity returns the named entity, empty when absent.
func (c *Classification) Entity(key string) string {
	if c == nil || c.Entities == nil {
		return ""
	}
	return c.Entities[key]
}

type SearchResult struct {
	Name     string
	Price    string
	Quantity string
}

type Classifier interface {
	Classify(ctx context.Context, message, userID string) (*Classification, error)
}

type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     logrus.WithField("component", "nlu_client"),
	}
}

type predictRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type predictResponse struct {
	Response struct {
		Intent   string                 `json:"intent"`
		Entities map[string]interface{} `json:"entities"`
	} `json:"response"`
}

func (c *Client) Classify(ctx context.Context, message, userID string) (*Classification, error) {
	body, err := json.Marshal(predictRequest{Message: message, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %s", ErrUpstream, resp.Status)
	}

	var wire predictResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: bad response body: %v", ErrUpstream, err)
	}

	intent := wire.Response.Intent
	if intent == "" {
		// An answer without an intent is treated as a fallback
		// classification, not an error.
		intent = "fallback"
	}

	entities, results := flattenEntities(wire.Response.Entities)

	c.log.WithFields(logrus.Fields{
		"intent":  intent,
		"user_id": userID,
	}).Debug("message classified")

	return &Classification{Intent: intent, Entities: entities, Results: results}, nil
}

// Older classifier revisions wrap product/order fields in a nested object
// and disagree on key spellings. Flatten everything onto one contract so
// the handlers only ever see canonical keys.
var canonicalKeys = map[string]string{
	"orderId":     "order_id",
	"productName": "product_name",
	"product":     "name",
}

func canonicalKey(key string) string {
	if canonical, ok := canonicalKeys[key]; ok {
		return canonical
	}
	return key
}

func flattenEntities(raw map[string]interface{}) (map[string]string, []SearchResult) {
	entities := make(map[string]string)
	var results []SearchResult

	for key, value := range raw {
		switch v := value.(type) {
		case map[string]interface{}:
			if key == "products" || key == "orders" {
				for nestedKey, nestedValue := range v {
					entities[canonicalKey(nestedKey)] = stringifyEntity(nestedValue)
				}
			}
		case []interface{}:
			if key == "results" {
				for _, item := range v {
					hit, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					results = append(results, SearchResult{
						Name:     stringifyEntity(hit["name"]),
						Price:    stringifyEntity(hit["price"]),
						Quantity: stringifyEntity(hit["quantity"]),
					})
				}
			}
		default:
			entities[canonicalKey(key)] = stringifyEntity(v)
		}
	}
	return entities, results
}

func stringifyEntity(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
