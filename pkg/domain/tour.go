package domain

// Tour is a bookable tour as listed by the backend.
type Tour struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Image    string   `json:"image,omitempty"`
	Price    float64  `json:"price"`
	Rating   float64  `json:"rating,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Location string   `json:"location,omitempty"`

	// Detail fields, only populated on single-tour fetches.
	Description string   `json:"description,omitempty"`
	Itinerary   []string `json:"itinerary,omitempty"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// Review is a traveller review attached to a tour.
type Review struct {
	User    string  `json:"user"`
	Comment string  `json:"comment"`
	Rating  float64 `json:"rating"`
}
