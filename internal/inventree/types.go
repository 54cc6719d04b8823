package inventree

import (
	"encoding/json"
	"fmt"
)

// apiCategory is a part category as returned by /api/part/category/.
type apiCategory struct {
	PK          int    `json:"pk"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PartCount   int    `json:"part_count"`
	Icon        string `json:"icon"`
}

// apiLocation is a storage location as returned by /api/stock/location/.
type apiLocation struct {
	PK           int    `json:"pk"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Items        int    `json:"items"`
	Sublocations int    `json:"sublocations"`
}

// apiPart is a part as returned by /api/part/ and /api/part/{id}/.
type apiPart struct {
	PK          int     `json:"pk"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	InStock     float64 `json:"in_stock"`
	Image       string  `json:"image"`
}

// apiStockItem is a stock record as returned by /api/stock/ and
// /api/stock/{id}/.
type apiStockItem struct {
	PK           int     `json:"pk"`
	Part         int     `json:"part"`
	Quantity     float64 `json:"quantity"`
	Serial       string  `json:"serial"`
	Batch        string  `json:"batch"`
	Location     int     `json:"location"`
	LocationName string  `json:"location_name"`
}

// removeStockRequest is the body of POST /api/stock/remove/.
type removeStockRequest struct {
	Items []removeStockItem `json:"items"`
}

type removeStockItem struct {
	PK       int     `json:"pk"`
	Quantity float64 `json:"quantity"`
}

// ErrorResponse is the server's standard error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// listPayload is the normalized result of a list endpoint. The server
// returns either a bare JSON array or a paginated
// {count, next, previous, results} envelope depending on the endpoint
// and its query parameters; decodeList folds both shapes into this one
// before any caller sees the payload.
type listPayload[T any] struct {
	Results []T

	// Next is the server-provided URL of the next page; empty when
	// there are no further results or the response was a bare array.
	Next string
}

// paginatedEnvelope mirrors the server's paginated list shape.
type paginatedEnvelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// decodeList normalizes a list response body. A leading '[' means a bare
// array; anything else is treated as the paginated envelope.
func decodeList[T any](data []byte) (listPayload[T], error) {
	var out listPayload[T]

	trimmed := firstNonSpace(data)
	if trimmed == '[' {
		if err := json.Unmarshal(data, &out.Results); err != nil {
			return out, &DecodeError{Err: err}
		}
		return out, nil
	}

	var env paginatedEnvelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return out, &DecodeError{Err: err}
	}
	out.Results = env.Results
	if env.Next != nil {
		out.Next = *env.Next
	}
	return out, nil
}

// firstNonSpace returns the first non-whitespace byte of data, or 0.
func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// DecodeError marks a response that arrived but could not be parsed as
// JSON, kept distinct from transport and HTTP status failures.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed JSON response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StatusError is a non-2xx HTTP response other than 401.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("unexpected status %d", e.Code)
}
