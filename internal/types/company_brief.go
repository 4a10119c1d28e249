package types

// CompanyBrief represents synthesized company research used to tailor tone
// and content. It may be partially empty when search yields little, but its
// collections are never nil.
type CompanyBrief struct {
	Mission      string     `json:"mission"`
	TechStack    []string   `json:"tech_stack"`
	CultureNotes []string   `json:"culture_notes"`
	RecentNews   []NewsItem `json:"recent_news"`
}

// NewsItem is a single recent-news entry with its source
type NewsItem struct {
	Headline  string `json:"headline"`
	Date      string `json:"date,omitempty"`
	SourceURL string `json:"source_url"`
}

// EmptyCompanyBrief returns a brief with empty, non-nil collections.
// Used when search returns nothing and the stage degrades instead of failing.
func EmptyCompanyBrief() *CompanyBrief {
	return &CompanyBrief{
		TechStack:    []string{},
		CultureNotes: []string{},
		RecentNews:   []NewsItem{},
	}
}

// Normalize ensures all collections are non-nil so downstream stages and
// serialization never see null
func (b *CompanyBrief) Normalize() {
	if b.TechStack == nil {
		b.TechStack = []string{}
	}
	if b.CultureNotes == nil {
		b.CultureNotes = []string{}
	}
	if b.RecentNews == nil {
		b.RecentNews = []NewsItem{}
	}
}

// Empty reports whether the brief carries no research content at all
func (b *CompanyBrief) Empty() bool {
	return b.Mission == "" && len(b.TechStack) == 0 && len(b.CultureNotes) == 0 && len(b.RecentNews) == 0
}
