package api

import (
	"context"
	"fmt"

	"github.com/tripwell/tripkit/pkg/domain"
)

// ListTours fetches the tour catalogue.
func (c *Client) ListTours(ctx context.Context) ([]domain.Tour, error) {
	env, err := c.get(ctx, "/tours")
	if err != nil {
		return nil, err
	}
	var tours []domain.Tour
	if err := env.decodeData(&tours); err != nil {
		return nil, err
	}
	return tours, nil
}

// GetTour fetches a single tour with itinerary and reviews.
func (c *Client) GetTour(ctx context.Context, id int64) (*domain.Tour, error) {
	env, err := c.get(ctx, fmt.Sprintf("/tours/%d", id))
	if err != nil {
		return nil, err
	}
	var tour domain.Tour
	if err := env.decodeData(&tour); err != nil {
		return nil, err
	}
	return &tour, nil
}
