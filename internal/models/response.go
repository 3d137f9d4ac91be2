package models

// ServedAd is the per-slot payload returned to the page for rendering.
type ServedAd struct {
	ID       string `json:"id"`
	OwnerID  string `json:"ownerId"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	ClickURL string `json:"clickUrl"`
}

// AdsMeta describes how the slots were assigned for this response.
type AdsMeta struct {
	Day         string `json:"day"`
	Device      string `json:"device"`
	TopOwner    string `json:"topOwner"`
	BottomOwner string `json:"bottomOwner"`
}

// AdsResponse is the body of a successful GET /v1/ads.
type AdsResponse struct {
	Meta   AdsMeta  `json:"meta"`
	Top    ServedAd `json:"top"`
	Bottom ServedAd `json:"bottom"`
}

// ErrorResponse is the JSON error body shared by all endpoints.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// StatsResponse is the debug snapshot returned by GET /v1/stats.
type StatsResponse struct {
	Day    string           `json:"day"`
	Device string           `json:"device"`
	Top    map[string]int64 `json:"topImpressions"`
}
