package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beatreach/beatreach/internal/types"
)

// gatheringPrompt names exactly the missing fields and embeds the serialized
// current preferences so the assistant focuses the conversation on what is
// still unknown.
func gatheringPrompt(missing []string, current types.Preferences) string {
	return fmt.Sprintf(`You are a helpful campaign creation assistant that helps users define their TikTok campaign preferences.
Missing information: **%s**

**Song Selection**
When discussing songs:
- Ask about the type of song they want to promote
- When they provide a song URL, acknowledge it and suggest relevant campaign goals
- Consider the song's genre and style when making suggestions

**Campaign Goals**
Suggest goals based on the song and target audience, such as:
- Increase song streams
- Create viral dance challenge
- Build artist awareness
- Drive playlist adds
- Generate UGC content

Current preferences:
%s

Focus on gathering the missing information in a conversational way. Do not generate campaign suggestions yet.

Your response MUST be a JSON object with this exact format:
{
  "message": "Your message to the user",
  "updatedPreferences": {
    "gender": "male" | "female" | "all" (optional),
    "location": "string" (optional),
    "priceRange": { "min": number, "max": number } (optional),
    "songUrl": "url string" (optional),
    "goals": ["string array"] (optional)
  },
  "complete": false,
  "response": null
}`, strings.Join(missing, ", "), jsonBlock(current))
}

// generationPrompt embeds the final preferences and the entire candidate
// catalog. The oracle is constrained to choose only from this list.
func generationPrompt(current types.Preferences, catalog []types.Influencer) string {
	return fmt.Sprintf(`You are a campaign generation expert. Based on the provided preferences, generate a complete TikTok campaign strategy.

Current preferences:
%s

Available Influencers:
%s

Generate a comprehensive campaign including:
1. Select 5-7 most relevant influencers from the provided list, with detailed match reasoning
2. A recommended song snippet (15-30 seconds) with timing and explanation
3. At least 3 creative ideas for content. IMPORTANT: Each idea MUST use EXACTLY one of these content types (no other types allowed):
   - 'dance': Choreographed routines or dance challenges
   - 'lipsync': Lip syncing or singing performances
   - 'transition': Creative video transitions or transformations
   - 'story': Narrative-based content or day-in-life videos
   - 'challenge': Interactive challenges or trends (non-dance)
   - 'other': Any other content type not covered above
   Note: If your idea doesn't fit the exact types above, use 'other' and describe the specific type in the description.
4. Overall campaign strategy

IMPORTANT:
- Only use influencers from the provided list. Do not make up new ones.
- Creative idea types MUST be exactly one of: 'dance', 'lipsync', 'transition', 'story', 'challenge', or 'other'.
  Any other value will cause an error.

Your response MUST be a JSON object with this exact format:
{
  "message": "Campaign strategy generated successfully!",
  "updatedPreferences": %s,
  "complete": true,
  "response": {
    "influencers": [
      {
        "id": "string",
        "name": "string",
        "platform": "string",
        "followers": number,
        "engagementRate": number,
        "niche": "string",
        "location": "string",
        "price": number,
        "website": "string (optional)",
        "matchScore": number,
        "reasoning": "string"
      }
    ],
    "strategy": "string",
    "songSnippet": {
      "startTimestamp": "00:00:15",
      "endTimestamp": "00:00:45",
      "reason": "string"
    },
    "creativeIdeas": [
      {
        "title": "string",
        "description": "string",
        "type": "dance" | "lipsync" | "transition" | "story" | "challenge" | "other",
        "difficulty": "easy" | "medium" | "hard",
        "estimatedViews": number
      }
    ]
  }
}`, jsonBlock(current), jsonBlock(catalog), jsonBlock(current))
}

// jsonBlock serializes v as an indented fenced JSON block for prompt embedding.
func jsonBlock(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Preferences and catalog entries are plain data; this cannot fail
		// for the types we embed.
		data = []byte("{}")
	}
	return "```json\n" + string(data) + "\n```"
}
