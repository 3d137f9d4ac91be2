package models

// Ad status values as they appear in the remote config document.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Placement slots on the page. Top is fairness-tracked; bottom simply goes
// to whichever owner did not win top.
const (
	PositionTop    = "top"
	PositionBottom = "bottom"
)

// Owner is one of the two parties sharing the top slot. Only the first two
// owners in the config document participate in rotation; extras are ignored.
type Owner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ImageSet holds the per-device creative variants for an ad.
type ImageSet struct {
	Desktop string `json:"desktop"`
	Mobile  string `json:"mobile"`
}

// Ad is a single creative entry from the remote config document.
// Weight biases the random draw within an owner's pool; values <= 0 are
// treated as 1 at selection time so no active ad can starve.
type Ad struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"ownerId"`
	Title     string   `json:"title"`
	TargetURL string   `json:"targetUrl"`
	Image     ImageSet `json:"image"`
	Status    string   `json:"status"`
	Weight    float64  `json:"weight"`
	Tags      []string `json:"tags,omitempty"`
}

// Active reports whether the ad is eligible to serve at all.
func (a Ad) Active() bool {
	return a.Status == StatusActive
}

// ImageFor returns the creative variant for the given device class,
// falling back to the desktop asset when the mobile one is absent.
func (a Ad) ImageFor(device string) string {
	if device == DeviceMobile && a.Image.Mobile != "" {
		return a.Image.Mobile
	}
	return a.Image.Desktop
}

// HasAnyTag reports whether the ad's tag set intersects the given labels.
func (a Ad) HasAnyTag(labels []string) bool {
	for _, l := range labels {
		for _, t := range a.Tags {
			if t == l {
				return true
			}
		}
	}
	return false
}

// Config is the owners+ads document fetched from the remote config URL.
type Config struct {
	Owners []Owner `json:"owners"`
	Ads    []Ad    `json:"ads"`
}

// FindAd returns the ad with the given ID, or nil when absent.
func (c *Config) FindAd(id string) *Ad {
	for i := range c.Ads {
		if c.Ads[i].ID == id {
			return &c.Ads[i]
		}
	}
	return nil
}
