package generator

import "fmt"

func textPrompt(title, eventContext string) string {
	return fmt.Sprintf(`
You are an event planning assistant for a futuristic event app.
Generate a compelling, short marketing description (max 25 words), 3 relevant tags, and a plausible fictional or real location for an event titled: %q.
Context provided by user: %q.

Return JSON.
`, title, eventContext)
}

func imagePrompt(title string) string {
	return fmt.Sprintf(`
A futuristic, high-end, aesthetic abstract 3D render event poster for an event titled %q.
Style: Dark mode, neon lighting, glassmorphism, raytracing, 8k resolution, minimalist.
No text on image.
`, title)
}
