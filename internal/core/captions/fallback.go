package captions

import "hash/fnv"

// DefaultCaption is returned whenever generation fails
const DefaultCaption = "Living my best life! ✨"

// fallbackCaptions are used when no completion backend is configured
var fallbackCaptions = []string{
	"Living my best life! ✨",
	"Perfect moment captured 📸",
	"Life is beautiful 🌟",
	"Making memories that last forever 💫",
	"Adventure awaits! 🚀",
	"Grateful for this moment 🙏",
	"Living in the present ✨",
	"Beautiful day, beautiful life 🌞",
	"Chasing dreams and capturing moments 📷",
	"Life is a journey, not a destination 🛤️",
}

// FallbackCaption picks a caption from the static table.
// The same description always yields the same caption.
func FallbackCaption(description string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(description))
	return fallbackCaptions[h.Sum32()%uint32(len(fallbackCaptions))]
}
