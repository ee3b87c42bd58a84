package concepts

// Lexical cue tables. Keys are bare lowercase tokens matched against script
// words; matching is exact after punctuation stripping, with a plural "s"
// tolerated.

var locationCues = map[string]struct{}{
	"room": {}, "bedroom": {}, "hallway": {}, "hospital": {}, "basement": {},
	"attic": {}, "forest": {}, "woods": {}, "house": {}, "school": {},
	"office": {}, "city": {}, "street": {}, "road": {}, "ocean": {},
	"beach": {}, "mountain": {}, "desert": {}, "lab": {}, "laboratory": {},
	"kitchen": {}, "garden": {}, "bridge": {}, "tunnel": {}, "station": {},
	"church": {}, "graveyard": {}, "cemetery": {}, "cabin": {}, "motel": {},
}

var objectCues = map[string]struct{}{
	"mirror": {}, "door": {}, "window": {}, "photograph": {}, "photo": {},
	"phone": {}, "clock": {}, "candle": {}, "knife": {}, "letter": {},
	"book": {}, "key": {}, "car": {}, "train": {}, "computer": {},
	"screen": {}, "camera": {}, "radio": {}, "television": {}, "stairs": {},
	"brain": {}, "heart": {}, "eye": {}, "hand": {}, "shadow": {},
	"light": {}, "fire": {}, "rain": {}, "snow": {}, "moon": {}, "star": {},
}

var emotionCues = map[string]struct{}{
	"fear": {}, "afraid": {}, "scared": {}, "terrified": {}, "dread": {},
	"loneliness": {}, "lonely": {}, "alone": {}, "isolated": {},
	"joy": {}, "happy": {}, "happiness": {}, "excited": {},
	"sadness": {}, "sad": {}, "grief": {}, "sorrow": {},
	"anger": {}, "angry": {}, "rage": {}, "furious": {},
	"calm": {}, "peace": {}, "peaceful": {}, "serene": {},
	"anxiety": {}, "anxious": {}, "nervous": {}, "panic": {},
	"wonder": {}, "awe": {}, "curious": {}, "mystery": {}, "mysterious": {},
}

var timeOfDayCues = map[string]struct{}{
	"night": {}, "midnight": {}, "dawn": {}, "dusk": {}, "morning": {},
	"evening": {}, "sunset": {}, "sunrise": {}, "noon": {}, "afternoon": {},
	"dark": {}, "darkness": {},
}

var actionCues = map[string]struct{}{
	"running": {}, "walking": {}, "falling": {}, "flying": {}, "driving": {},
	"screaming": {}, "whispering": {}, "writing": {}, "reading": {},
	"watching": {}, "waiting": {}, "hiding": {}, "searching": {},
	"breathing": {}, "dreaming": {}, "sleeping": {}, "crying": {},
}

// queryTable expands a detected concept into concrete stock-footage search
// phrases. One to three phrases per concept keeps fetch fan-out bounded.
var queryTable = map[string][]string{
	"brain":      {"neural network", "brain scan", "neurons firing"},
	"heart":      {"heartbeat monitor", "heart anatomy"},
	"mirror":     {"mirror reflection", "broken mirror"},
	"night":      {"city at night", "night sky timelapse"},
	"dark":       {"dark corridor", "dark clouds"},
	"darkness":   {"dark corridor", "dark clouds"},
	"ocean":      {"ocean waves aerial", "deep ocean"},
	"forest":     {"foggy forest", "forest canopy"},
	"woods":      {"foggy forest", "forest canopy"},
	"city":       {"city skyline", "busy city street"},
	"rain":       {"rain on window", "rainy street"},
	"fire":       {"flames closeup", "bonfire night"},
	"hospital":   {"hospital corridor", "medical equipment"},
	"basement":   {"dark basement stairs", "dim cellar"},
	"fear":       {"dark scene", "shadowy figure"},
	"afraid":     {"dark scene", "shadowy figure"},
	"scared":     {"dark scene", "shadowy figure"},
	"terrified":  {"dark scene", "shadowy figure"},
	"loneliness": {"empty street", "person alone silhouette"},
	"lonely":     {"empty street", "person alone silhouette"},
	"alone":      {"empty street", "person alone silhouette"},
	"calm":       {"calm lake morning", "slow clouds"},
	"peaceful":   {"calm lake morning", "slow clouds"},
	"anxiety":    {"crowded blur", "ticking clock closeup"},
	"anxious":    {"crowded blur", "ticking clock closeup"},
	"mystery":    {"fog rolling", "abandoned building"},
	"mysterious": {"fog rolling", "abandoned building"},
	"clock":      {"ticking clock closeup", "clock hands timelapse"},
	"phone":      {"glowing phone screen dark", "person scrolling phone"},
	"computer":   {"code on screen", "server room"},
	"screen":     {"code on screen", "glowing screen dark room"},
	"moon":       {"full moon clouds", "moonlit landscape"},
	"snow":       {"falling snow", "snowy forest"},
	"car":        {"car driving night", "headlights highway"},
	"train":      {"train passing", "empty train platform"},
	"running":    {"person running slow motion", "feet running pavement"},
	"falling":    {"falling slow motion", "leaves falling"},
	"breathing":  {"breath in cold air", "chest breathing closeup"},
	"dreaming":   {"surreal clouds", "slow motion underwater"},
}

// tagQueries maps broad content tags to genre-level search phrases.
var tagQueries = map[string][]string{
	"horror":      {"dark scene", "abandoned house"},
	"scary":       {"dark scene", "abandoned house"},
	"science":     {"laboratory research", "abstract particles"},
	"neuroscience": {"neural network", "brain scan"},
	"psychology":  {"human eye closeup", "silhouette thinking"},
	"history":     {"old film archive", "ancient ruins"},
	"nature":      {"forest aerial", "ocean waves aerial"},
	"space":       {"starfield", "nebula"},
	"technology":  {"circuit board closeup", "data visualization"},
	"motivation":  {"sunrise timelapse", "person on mountain top"},
	"finance":     {"stock market chart", "city skyline"},
	"true-crime":  {"police lights night", "case file documents"},
}
