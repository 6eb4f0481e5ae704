package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// List is the canonical container for collection responses. The service
// answers some endpoints with a paginated {count, results} envelope and
// others with a bare array; every consumer sees this one shape instead.
type List[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

type listEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// DecodeList normalizes a collection payload into a List.
func DecodeList[T any](raw []byte) (List[T], error) {
	var bare []T
	if err := json.Unmarshal(raw, &bare); err == nil {
		return List[T]{Count: len(bare), Results: bare}, nil
	}

	var envelope listEnvelope[T]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return List[T]{}, errors.Wrap(err, "[DecodeList] payload is neither an array nor a results envelope")
	}
	count := envelope.Count
	if count == 0 {
		count = len(envelope.Results)
	}
	return List[T]{Count: count, Results: envelope.Results}, nil
}

// GetList fetches a collection endpoint and normalizes its shape.
func GetList[T any](ctx context.Context, c *Client, path string) (List[T], error) {
	raw, status, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return List[T]{}, err
	}
	if status < 200 || status > 299 {
		return List[T]{}, decodeAPIError(status, raw)
	}
	return DecodeList[T](raw)
}
