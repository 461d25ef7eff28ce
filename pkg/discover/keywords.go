package discover

import "time"

// Pools holds the keyword and hashtag sequences a discovery run draws
// from. Pools are immutable configuration injected at engine
// construction so tests can substitute small deterministic pools for
// the randomized defaults.
type Pools struct {
	// Trending is tier 1 of intelligent auto-search: single trending words.
	Trending []string
	// Combos is tier 2: two-word combination phrases.
	Combos []string
	// HighVolume is tier 3: broad fallback terms, used only when the
	// earlier tiers underproduce on a large batch.
	HighVolume []string
	// Hashtags feeds hashtag search.
	Hashtags []string
}

var viralTrends = []string{
	"viral", "trending", "fyp", "foryou", "challenge", "dance", "funny", "comedy",
	"prank", "reaction", "storytime", "tutorial", "hack", "tips", "diy",
	"cooking", "recipe", "food", "travel", "adventure", "workout", "fitness",
	"makeup", "skincare", "fashion", "outfit", "style", "music", "singing",
	"art", "drawing", "painting", "craft", "gaming", "tech", "review",
	"unboxing", "haul", "transformation", "beforeafter", "satisfying",
	"asmr", "relax", "motivation", "inspiration", "life", "daily", "vlog",
}

var popularTopics = []string{
	"tiktokdance", "duet", "collab", "trend", "famous", "celebrity",
	"influencer", "creator", "content", "entertainment", "show", "series",
}

var comboPhrases = []string{
	"viral dance", "funny prank", "cooking hack", "makeup tutorial",
	"travel vlog", "workout routine", "art challenge", "music cover",
	"reaction video", "storytime funny", "diy craft", "fashion haul",
	"gaming moments", "pet funny", "satisfying video", "life hack",
	"trending meme", "viral trend", "dance challenge", "funny moment",
	"epic fail", "amazing talent", "cute animals", "food review",
	"travel adventure", "fitness motivation", "beauty tips", "tech review",
	"comedy skit", "music remix", "art tutorial", "gaming highlight",
	"lifestyle vlog", "fashion style", "cooking recipe", "workout tips",
}

var highVolumeTerms = []string{
	"funny", "viral", "dance", "music", "food", "travel", "art", "gaming",
	"comedy", "tutorial", "hack", "diy", "makeup", "fashion", "workout",
	"pets", "nature", "tech", "review", "vlog", "challenge", "trend",
}

var popularHashtags = []string{
	"#fyp", "#viral", "#trending", "#foryou", "#dance", "#funny", "#comedy",
	"#prank", "#challenge", "#tutorial", "#hack", "#diy", "#cooking", "#food",
	"#travel", "#workout", "#makeup", "#fashion", "#music", "#art", "#gaming",
	"#satisfying", "#asmr", "#motivation", "#life", "#daily", "#vlog", "#pets",
	"#nature", "#photography", "#style", "#beauty", "#health", "#fitness",
	"#meme", "#trend", "#duet", "#collab", "#reaction", "#storytime", "#tips",
	"#review", "#unboxing", "#haul", "#transformation", "#beforeafter", "#fail",
	"#win", "#talent", "#skill", "#amazing", "#cute", "#love", "#fun", "#cool",
	"#awesome", "#epic", "#wow", "#omg", "#lol", "#mood", "#vibes", "#aesthetic",
}

// seasonalTerms returns terms matching the current season; they rank
// well in search around their months.
func seasonalTerms(now time.Time) []string {
	switch now.Month() {
	case time.December, time.January, time.February:
		return []string{"winter", "snow", "holiday", "christmas", "newyear", "cozy"}
	case time.March, time.April, time.May:
		return []string{"spring", "flowers", "easter", "fresh", "nature", "garden"}
	case time.June, time.July, time.August:
		return []string{"summer", "beach", "vacation", "hot", "sun", "pool"}
	default:
		return []string{"fall", "autumn", "halloween", "cozy", "pumpkin", "leaves"}
	}
}

// DefaultPools builds the stock keyword pools, with the trending tier
// seasoned by the current date.
func DefaultPools(now time.Time) Pools {
	trending := make([]string, 0, len(viralTrends)+len(popularTopics)+6)
	trending = append(trending, viralTrends...)
	trending = append(trending, popularTopics...)
	trending = append(trending, seasonalTerms(now)...)

	return Pools{
		Trending:   trending,
		Combos:     append([]string(nil), comboPhrases...),
		HighVolume: append([]string(nil), highVolumeTerms...),
		Hashtags:   append([]string(nil), popularHashtags...),
	}
}
