// Package store holds the data access layer: listings in Elasticsearch,
// users/bookings/reviews in PostgreSQL, sessions in Redis.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

// ListingStore is the listings document store. Each document embeds the
// owner profile so candidate retrieval needs no second query.
type ListingStore struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewListingStore(client *elasticsearch.Client, index string, log logger.Logger) *ListingStore {
	return &ListingStore{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"store": "listings"}),
	}
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source models.Listing `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Index creates or replaces a listing document.
func (s *ListingStore) Index(ctx context.Context, listing *models.Listing) error {
	body, err := json.Marshal(listing)
	if err != nil {
		return errors.NewInternalError(err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: listing.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchError(fmt.Errorf("index listing: %s", res.Status()))
	}
	return nil
}

// Get fetches one listing by id.
func (s *ListingStore) Get(ctx context.Context, id string) (*models.Listing, error) {
	req := esapi.GetRequest{Index: s.index, DocumentID: id}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, errors.NewNotFoundError("Listing")
	}
	if res.IsError() {
		return nil, errors.NewSearchError(fmt.Errorf("get listing: %s", res.Status()))
	}

	var doc struct {
		Source models.Listing `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, errors.NewSearchError(fmt.Errorf("decode listing: %w", err))
	}
	return &doc.Source, nil
}

// Delete removes a listing document.
func (s *ListingStore) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id, Refresh: "wait_for"}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return errors.NewNotFoundError("Listing")
	}
	if res.IsError() {
		return errors.NewSearchError(fmt.Errorf("delete listing: %s", res.Status()))
	}
	return nil
}

// UpdateRating pushes a recomputed review aggregate onto the document.
func (s *ListingStore) UpdateRating(ctx context.Context, id string, summary models.RatingSummary) error {
	body, _ := json.Marshal(map[string]interface{}{
		"doc": map[string]interface{}{
			"rating":      summary.Average,
			"reviewCount": summary.Count,
		},
	})

	req := esapi.UpdateRequest{
		Index:      s.index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return errors.NewNotFoundError("Listing")
	}
	if res.IsError() {
		return errors.NewSearchError(fmt.Errorf("update rating: %s", res.Status()))
	}
	return nil
}

// SearchByTitle is the candidate query for the recommendation flow:
// case-insensitive substring match on the title field.
func (s *ListingStore) SearchByTitle(ctx context.Context, title string) ([]models.Listing, error) {
	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				"title.keyword": map[string]interface{}{
					"value":            "*" + title + "*",
					"case_insensitive": true,
				},
			},
		},
	}

	return s.search(ctx, queryBody, 100)
}

// List returns listings matching the filter, in the requested sort order.
func (s *ListingStore) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	boolQuery := map[string]interface{}{}
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if filter.Search != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  filter.Search,
				"fields": []string{"title^3", "description^2", "location"},
				"type":   "best_fields",
			},
		})
	}

	if filter.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category.keyword": filter.Category},
		})
	}

	if filter.MinPrice > 0 || filter.MaxPrice > 0 {
		priceRange := map[string]interface{}{}
		if filter.MinPrice > 0 {
			priceRange["gte"] = filter.MinPrice
		}
		if filter.MaxPrice > 0 {
			priceRange["lte"] = filter.MaxPrice
		}
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"price": priceRange},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}
	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}

	switch filter.Sort {
	case "priceLow":
		queryBody["sort"] = []interface{}{map[string]interface{}{"price": "asc"}}
	case "priceHigh":
		queryBody["sort"] = []interface{}{map[string]interface{}{"price": "desc"}}
	case "ratingHigh":
		queryBody["sort"] = []interface{}{map[string]interface{}{"rating": "desc"}}
	}

	return s.search(ctx, queryBody, 100)
}

func (s *ListingStore) search(ctx context.Context, queryBody map[string]interface{}, size int) ([]models.Listing, error) {
	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.NewSearchError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchError(fmt.Errorf("search listings: %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchError(fmt.Errorf("decode search response: %w", err))
	}

	listings := make([]models.Listing, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		listing := hit.Source
		if listing.ID == "" {
			listing.ID = hit.ID
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
