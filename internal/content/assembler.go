package content

import "fmt"

// Assemble pads each parsed list with placeholder items until it holds
// exactly the requested count, truncating any overflow while keeping the
// earliest items. Success reflects whether anything real was parsed before
// padding, so a fully synthetic result reports failure even though every
// count is satisfied.
func Assemble(titles, descriptions, bullets []string, req GenerationRequest) GenerationResult {
	parsed := len(titles) + len(descriptions) + len(bullets)

	return GenerationResult{
		Success:      parsed > 0,
		Titles:       fitToCount(titles, req.TitleCount, "Generated Title %d"),
		Descriptions: fitToCount(descriptions, req.DescCount, "Generated Description %d"),
		Bullets:      fitToCount(bullets, req.BulletCount, "Generated Bullet Point %d"),
	}
}

func fitToCount(items []string, count int, placeholder string) []string {
	if count < 0 {
		count = 0
	}
	out := make([]string, 0, count)
	out = append(out, items...)
	for len(out) < count {
		out = append(out, fmt.Sprintf(placeholder, len(out)+1))
	}
	return out[:count]
}
