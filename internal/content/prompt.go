package content

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the full instruction text for one request. The output is
// deterministic: the same request always yields byte-identical text, because
// the section parser is anchored to the exact grammar declared here.
func BuildPrompt(req GenerationRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert e-commerce content writer. Generate product content based on the following instructions.\n\n")

	b.WriteString("**PROMPTS (How to write):**\n")
	fmt.Fprintf(&b, "- Title Prompt: %s\n", req.TitlePrompt)
	fmt.Fprintf(&b, "- Description Prompt: %s\n", req.DescPrompt)
	fmt.Fprintf(&b, "- Bullet Prompt: %s\n", req.BulletPrompt)

	b.WriteString("\n**REFERENCE DATA (What to base content on):**\n")
	if req.TitleData != "" {
		fmt.Fprintf(&b, "\nTitle Reference Data:\n%s\n", req.TitleData)
	}
	if req.DescData != "" {
		fmt.Fprintf(&b, "\nDescription Reference Data:\n%s\n", req.DescData)
	}
	if req.BulletData != "" {
		fmt.Fprintf(&b, "\nBullet Reference Data:\n%s\n", req.BulletData)
	}

	b.WriteString("\n**GENERATION REQUIREMENTS:**\n")
	fmt.Fprintf(&b, "1. Generate EXACTLY %d titles, %d descriptions, %d bullets\n", req.TitleCount, req.DescCount, req.BulletCount)
	fmt.Fprintf(&b, "2. Each title should be approximately %d characters\n", req.TitleLength)
	fmt.Fprintf(&b, "3. Each description should be approximately %d characters\n", req.DescLength)
	fmt.Fprintf(&b, "4. Each bullet should be approximately %d characters\n", req.BulletLength)
	b.WriteString("5. Use the prompts to guide your writing style\n")
	b.WriteString("6. Use the reference data to understand what type of content to create\n")

	b.WriteString(`
**CRITICAL OUTPUT FORMAT - FOLLOW EXACTLY:**

TITLES:
Title 1: [Write actual title here]
Title 2: [Write actual title here]
...

DESCRIPTIONS:
Description 1: [Write actual description here]
Description 2: [Write actual description here]
...

BULLETS:
Bullet 1: [Write actual bullet here]
Bullet 2: [Write actual bullet here]
...

**IMPORTANT RULES:**
- Start IMMEDIATELY with "TITLES:" followed by numbered items
- Each item must be on its OWN LINE
- Use format "Title 1:", "Description 2:", "Bullet 3:" for EVERY item
- Write REAL content - NO placeholders like "[write content here]"
- Follow the character length guidelines closely
- Base content on the reference data provided

Now generate the content. Start with "TITLES:" immediately.`)

	return b.String()
}
