package types

import (
	"encoding/json"
	"time"
)

// Gender constrains the audience gender preference.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAll    Gender = "all"
)

// Genders lists the accepted audience gender values.
var Genders = []string{string(GenderMale), string(GenderFemale), string(GenderAll)}

// PriceRange is a budget band in whole currency units.
// Both bounds must be set for the range to count as present.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Preferences is everything learned about the campaign so far.
// Nil fields are absent; the caller threads the value through every turn,
// nothing is kept server-side between calls.
type Preferences struct {
	Gender     *Gender     `json:"gender,omitempty"`
	Location   *string     `json:"location,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	SongURL    *string     `json:"songUrl,omitempty"`
	Goals      []string    `json:"goals,omitempty"`
}

// PreferenceUpdate is the raw per-field updater returned by the oracle.
// Keys absent from the map leave the current value untouched; a key holding
// JSON null clears the field.
type PreferenceUpdate map[string]json.RawMessage

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry of the caller-supplied conversation history.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Influencer is a candidate catalog entry. Catalog data is authoritative;
// oracle-provided copies of these fields are never trusted.
type Influencer struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Platform       string  `json:"platform"`
	Followers      int64   `json:"followers"`
	EngagementRate float64 `json:"engagementRate"`
	Niche          string  `json:"niche"`
	Location       string  `json:"location"`
	Price          float64 `json:"price"`
	Website        string  `json:"website,omitempty"`
	Image          string  `json:"image,omitempty"`
	Handle         string  `json:"handle,omitempty"`
}

// RecommendedInfluencer overlays oracle scoring onto catalog truth.
type RecommendedInfluencer struct {
	Influencer
	MatchScore float64 `json:"matchScore"`
	Reasoning  string  `json:"reasoning"`
}

// CreativeType enumerates the allowed content formats for a creative idea.
type CreativeType string

const (
	CreativeDance      CreativeType = "dance"
	CreativeLipsync    CreativeType = "lipsync"
	CreativeTransition CreativeType = "transition"
	CreativeStory      CreativeType = "story"
	CreativeChallenge  CreativeType = "challenge"
	CreativeOther      CreativeType = "other"
)

// CreativeTypes lists the accepted creative idea types.
var CreativeTypes = []string{
	string(CreativeDance),
	string(CreativeLipsync),
	string(CreativeTransition),
	string(CreativeStory),
	string(CreativeChallenge),
	string(CreativeOther),
}

// Difficulties lists the accepted creative idea difficulty levels.
var Difficulties = []string{"easy", "medium", "hard"}

// CreativeIdea is one content suggestion in the campaign bundle.
type CreativeIdea struct {
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Type           CreativeType `json:"type"`
	Difficulty     string       `json:"difficulty"`
	EstimatedViews int64        `json:"estimatedViews"`
}

// SongSnippet recommends a section of the campaign song.
// Timestamps are HH:MM:SS.
type SongSnippet struct {
	StartTimestamp string `json:"startTimestamp"`
	EndTimestamp   string `json:"endTimestamp"`
	Reason         string `json:"reason"`
}

// CampaignBundle is the terminal artifact of a completed conversation.
type CampaignBundle struct {
	Influencers   []RecommendedInfluencer `json:"influencers"`
	Strategy      string                  `json:"strategy"`
	SongSnippet   SongSnippet             `json:"songSnippet"`
	CreativeIdeas []CreativeIdea          `json:"creativeIdeas"`
}

// TurnRequest is the inbound contract for one controller turn.
type TurnRequest struct {
	Message        string      `json:"message"`
	Preferences    Preferences `json:"preferences"`
	MessageHistory []Message   `json:"messageHistory"`
}

// TurnResponse is the outbound contract for one controller turn.
// Response is nil while gathering. Degraded is set when fewer influencers
// than the policy minimum survived catalog cross-referencing.
type TurnResponse struct {
	Message            string          `json:"message"`
	UpdatedPreferences Preferences     `json:"updatedPreferences"`
	Complete           bool            `json:"complete"`
	Response           *CampaignBundle `json:"response"`
	Degraded           bool            `json:"degraded,omitempty"`
	Warning            string          `json:"warning,omitempty"`
}

// SongResult is a flattened track from the song catalog search.
type SongResult struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artist     string   `json:"artist"`
	Album      string   `json:"album,omitempty"`
	PreviewURL string   `json:"previewUrl,omitempty"`
	SpotifyURL string   `json:"spotifyUrl"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	Genres     []string `json:"genres,omitempty"`
}

// SongSearchRequest is the inbound body for song search.
type SongSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// RegisterRequest is the inbound body for account registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// ExternalAccount is the result of registering against the external user service.
type ExternalAccount struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// User is a locally mirrored account backing the server-rendered pages.
type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"externalId,omitempty"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewUser is the payload for mirroring a registered account locally.
type NewUser struct {
	ExternalID string
	Email      string
	Name       string
}

// SavedCampaign is a persisted terminal bundle plus the preferences that
// produced it. Conversation history is deliberately not stored.
type SavedCampaign struct {
	ID          string         `json:"id"`
	Preferences Preferences    `json:"preferences"`
	Bundle      CampaignBundle `json:"bundle"`
	Degraded    bool           `json:"degraded"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// NewCampaign is the payload for persisting a completed bundle.
type NewCampaign struct {
	Preferences Preferences
	Bundle      CampaignBundle
	Degraded    bool
}

// CampaignSummary is the list-page projection of a saved campaign.
type CampaignSummary struct {
	ID              string    `json:"id"`
	Strategy        string    `json:"strategy"`
	InfluencerCount int       `json:"influencerCount"`
	Degraded        bool      `json:"degraded"`
	CreatedAt       time.Time `json:"createdAt"`
}

// HealthResponse reports service liveness and basic stats.
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	OracleModel  string `json:"oracleModel"`
	CatalogCount int64  `json:"catalogCount"`
}
