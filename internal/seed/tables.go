package seed

var adjectives = []string{
	"creative", "adventurous", "dreamy", "vibrant", "serene",
	"bold", "mystical", "radiant", "cosmic", "ethereal",
	"wild", "peaceful", "energetic", "charming", "witty",
}

var nouns = []string{
	"explorer", "dreamer", "artist", "wanderer", "creator",
	"adventurer", "photographer", "traveler", "storyteller", "visionary",
	"soul", "spirit", "heart", "mind", "journey",
}

var locations = []string{
	"New York, NY", "Los Angeles, CA", "San Francisco, CA", "Miami, FL",
	"Chicago, IL", "Seattle, WA", "Austin, TX", "Denver, CO",
	"Portland, OR", "Nashville, TN", "New Orleans, LA", "Las Vegas, NV",
	"Boston, MA", "Philadelphia, PA", "Washington, DC", "Atlanta, GA",
	"Phoenix, AZ", "Dallas, TX", "Houston, TX", "San Diego, CA",
	"Paris, France", "London, UK", "Tokyo, Japan", "Sydney, Australia",
	"Barcelona, Spain", "Rome, Italy", "Amsterdam, Netherlands", "Berlin, Germany",
	"Vancouver, Canada", "Toronto, Canada", "Mexico City, Mexico", "Rio de Janeiro, Brazil",
}

var imageCategories = []string{
	"nature", "city", "food", "travel", "architecture",
	"people", "animals", "technology", "fashion", "art",
}

var imageDescriptions = []string{
	"a beautiful sunset over mountains",
	"a cozy coffee shop interior",
	"a vibrant street art mural",
	"a peaceful beach at dawn",
	"a bustling city street",
	"a serene forest path",
	"a delicious plate of food",
	"a stunning architectural building",
	"a cute pet portrait",
	"a colorful flower garden",
}
