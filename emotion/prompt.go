package emotion

import (
	"fmt"
	"strings"
)

const promptTemplate = `Analyze the emotional tone of the following daily check-in transcript. Focus on detecting:
- Primary emotion (happy, sad, anxious, lonely, confused, angry, calm, etc.)
- Emotional intensity (1-10 scale)
- Emotional stability indicators
- Any concerning emotional patterns
%s
Transcript: %s

Respond with a single JSON object and nothing else:
{
  "primary_emotion": "emotion_name",
  "confidence": 0.85,
  "intensity": 7,
  "stability": "stable or unstable",
  "concerning_patterns": ["pattern1", "pattern2"],
  "summary": "brief emotional summary",
  "timestamp": "RFC3339 time of the analysis"
}`

// BuildPrompt renders the instruction sent to the text-generation provider.
// userContext is optional background about the speaker.
func BuildPrompt(transcript, userContext string) string {
	var ctxLine string
	if c := strings.TrimSpace(userContext); c != "" {
		ctxLine = "\nContext about the speaker: " + c + "\n"
	}
	return fmt.Sprintf(promptTemplate, ctxLine, transcript)
}
