// Package content holds the structured-copy pipeline: building the instruction
// prompt, cleaning the raw reply scraped from the chat surface, parsing it into
// the three labeled sections, and assembling the final counted lists.
package content

// Default counts and advisory target lengths applied when a request leaves
// them unset.
const (
	DefaultTitleCount  = 5
	DefaultDescCount   = 5
	DefaultBulletCount = 8

	DefaultTitleLength  = 100
	DefaultDescLength   = 300
	DefaultBulletLength = 80
)

// GenerationRequest describes one batch of marketing copy to produce.
// Prompts are required; reference data is optional context the copy should be
// based on. Target lengths are advisory for the model and never enforced on
// the parsed output.
type GenerationRequest struct {
	TitlePrompt  string `json:"title_prompt" binding:"required"`
	DescPrompt   string `json:"desc_prompt" binding:"required"`
	BulletPrompt string `json:"bullet_prompt" binding:"required"`

	TitleData  string `json:"title_data"`
	DescData   string `json:"desc_data"`
	BulletData string `json:"bullet_data"`

	TitleCount  int `json:"title_count"`
	DescCount   int `json:"desc_count"`
	BulletCount int `json:"bullet_count"`

	TitleLength  int `json:"title_length"`
	DescLength   int `json:"desc_length"`
	BulletLength int `json:"bullet_length"`
}

// ApplyDefaults fills unset counts and lengths in place. Zero and negative
// values count as unset; JSON bodies cannot distinguish a missing field from
// an explicit zero.
func (r *GenerationRequest) ApplyDefaults() {
	if r.TitleCount <= 0 {
		r.TitleCount = DefaultTitleCount
	}
	if r.DescCount <= 0 {
		r.DescCount = DefaultDescCount
	}
	if r.BulletCount <= 0 {
		r.BulletCount = DefaultBulletCount
	}
	if r.TitleLength <= 0 {
		r.TitleLength = DefaultTitleLength
	}
	if r.DescLength <= 0 {
		r.DescLength = DefaultDescLength
	}
	if r.BulletLength <= 0 {
		r.BulletLength = DefaultBulletLength
	}
}

// GenerationResult is the uniform response envelope. Success is true when at
// least one list held a real parsed item before placeholder padding.
type GenerationResult struct {
	Success      bool     `json:"success"`
	Titles       []string `json:"titles"`
	Descriptions []string `json:"descriptions"`
	Bullets      []string `json:"bullets"`
	Error        string   `json:"error,omitempty"`
}
