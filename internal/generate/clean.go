package generate

import "strings"

// CleanPipeline strips markdown code fences and any prose the model emitted
// before the pipeline block.
func CleanPipeline(content string) string {
	content = stripFences(content)
	if idx := strings.Index(content, "pipeline"); idx > 0 {
		content = content[idx:]
	}
	return strings.TrimSpace(content)
}

// CleanXML strips code fences and rewinds to the XML declaration, or to the
// first element when the declaration is missing.
func CleanXML(content string) string {
	content = stripFences(content)
	if idx := strings.Index(content, "<?xml"); idx > 0 {
		content = content[idx:]
	} else if idx < 0 {
		if first := strings.Index(content, "<"); first > 0 {
			content = content[first:]
		}
	}
	return strings.TrimSpace(content)
}

func stripFences(content string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
