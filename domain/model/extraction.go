package model

// ExtractedContent is the boilerplate-free reduction of a fetched page.
type ExtractedContent struct {
	Title       string `json:"title"`
	TextContent string `json:"textContent"`
	Byline      string `json:"byline"`
	SiteName    string `json:"siteName"`
	SourceURL   string `json:"sourceUrl"`
	LeadImage   string `json:"leadImage,omitempty"`
}
