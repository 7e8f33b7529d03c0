package page4u

// Backend-owned record shapes. These are decoded tolerantly: every
// field may be absent and rendering code must cope with zero values.

// Page is one hosted landing page.
type Page struct {
	Slug         string `json:"slug"`
	BusinessName string `json:"businessName"`
	Status       string `json:"status"`
	URL          string `json:"url"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// Lead is one form submission captured by a landing page.
type Lead struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// AnalyticsSnapshot is the event-counter summary for one page over a
// period. The backend returns either a preformatted period label or a
// from/to range, depending on how the query was phrased.
type AnalyticsSnapshot struct {
	Period      string `json:"period"`
	From        string `json:"from"`
	To          string `json:"to"`
	Views       int64  `json:"views"`
	UniqueViews int64  `json:"uniqueViews"`
	Leads       int64  `json:"leads"`
	WhatsApp    int64  `json:"whatsappClicks"`
	PhoneClicks int64  `json:"phoneClicks"`
}

// DeployResult is the backend's answer to a deploy call. Warnings are
// non-fatal and must be surfaced to the caller when present.
type DeployResult struct {
	URL      string   `json:"url"`
	Slug     string   `json:"slug"`
	Warnings []string `json:"warnings"`
}

// UpdateResult is the backend's answer to a partial page update.
type UpdateResult struct {
	Slug    string   `json:"slug"`
	Updated []string `json:"updated"`
}
