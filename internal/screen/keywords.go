package screen

// keywords is the fixed multilingual screening list covering profanity,
// violence, self-harm, discrimination, and controlled-substance terms in
// English and Tamil. Matching is a case-insensitive substring scan, so a
// keyword can match inside a larger word; that false-positive tradeoff is
// intentional.
var keywords = []string{
	"kill", "murder", "attack", "shoot", "gun", "knife", "bomb", "blood", "fight", "violence", "terror",
	"threat", "death", "suicide", "rape", "abuse", "hate", "racist", "caste", "religion", "slur",
	"discriminate", "insult", "drug", "cocaine", "heroin", "weed", "alcohol", "drink", "smoke",
	"liquor", "sex", "porn", "nude", "fuck", "shit", "bitch", "asshole", "bastard", "dick", "pussy",
	"boobs", "cock", "screw", "whore", "slut", "வெறுப்பு", "கொலை", "தாக்குதல்", "குண்டு", "கத்தி",
	"இனவெறி", "பாலியல்", "அவமதிப்பு", "மருந்து", "குடி", "மோசடி", "தூண்டுதல்", "சாவு", "அடிச்சு", "சாணம்",
}

// Keywords returns a copy of the screening list in scan order.
func Keywords() []string {
	out := make([]string, len(keywords))
	copy(out, keywords)
	return out
}
