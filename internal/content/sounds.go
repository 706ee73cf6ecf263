package content

// Sound is one playable entry in the catalog
type Sound struct {
	ID       string
	Name     string
	Explicit bool
}

// Sounds is the built-in sound catalog. IDs are stable; clients resolve
// them to audio assets on their side.
var Sounds = []Sound{
	// Voices
	{ID: "snd-evil-laugh", Name: "Evil Laugh"},
	{ID: "snd-baby-giggle", Name: "Baby Giggle"},
	{ID: "snd-opera-note", Name: "Opera Note"},
	{ID: "snd-yodel", Name: "Yodel"},
	{ID: "snd-whisper-hey", Name: "Whispered Hey"},
	{ID: "snd-scream", Name: "Blood-Curdling Scream"},
	{ID: "snd-gasp", Name: "Dramatic Gasp"},
	{ID: "snd-slurp", Name: "Loud Slurp"},
	{ID: "snd-burp", Name: "Burp", Explicit: true},
	{ID: "snd-snore", Name: "Snore"},
	{ID: "snd-kazoo-solo", Name: "Kazoo Solo"},
	{ID: "snd-beatbox", Name: "Beatbox Loop"},

	// Animals
	{ID: "snd-goat-bleat", Name: "Screaming Goat"},
	{ID: "snd-cat-meow", Name: "Angry Meow"},
	{ID: "snd-dog-howl", Name: "Dog Howl"},
	{ID: "snd-rooster", Name: "Rooster Crow"},
	{ID: "snd-elephant", Name: "Elephant Trumpet"},
	{ID: "snd-dolphin", Name: "Dolphin Chatter"},
	{ID: "snd-frog-croak", Name: "Frog Croak"},
	{ID: "snd-seagull", Name: "Seagull Cry"},

	// Machines
	{ID: "snd-dialup-modem", Name: "Dial-Up Modem"},
	{ID: "snd-car-alarm", Name: "Car Alarm"},
	{ID: "snd-chainsaw", Name: "Chainsaw"},
	{ID: "snd-blender", Name: "Blender"},
	{ID: "snd-truck-reverse", Name: "Truck Reversing"},
	{ID: "snd-printer", Name: "Dot-Matrix Printer"},
	{ID: "snd-vacuum", Name: "Vacuum Cleaner"},
	{ID: "snd-windows-error", Name: "Error Chime"},

	// Music stings
	{ID: "snd-sad-trombone", Name: "Sad Trombone"},
	{ID: "snd-airhorn", Name: "Airhorn"},
	{ID: "snd-drumroll", Name: "Drumroll"},
	{ID: "snd-rimshot", Name: "Rimshot"},
	{ID: "snd-harp-gliss", Name: "Harp Glissando"},
	{ID: "snd-record-scratch", Name: "Record Scratch"},
	{ID: "snd-triumphant-horns", Name: "Triumphant Horns"},
	{ID: "snd-ominous-choir", Name: "Ominous Choir"},

	// Household
	{ID: "snd-toilet-flush", Name: "Toilet Flush", Explicit: true},
	{ID: "snd-door-creak", Name: "Creaking Door"},
	{ID: "snd-glass-shatter", Name: "Shattering Glass"},
	{ID: "snd-bubble-wrap", Name: "Bubble Wrap"},
	{ID: "snd-microwave-beep", Name: "Microwave Beep"},
	{ID: "snd-squeaky-toy", Name: "Squeaky Toy"},
	{ID: "snd-duct-tape", Name: "Duct Tape Rip"},
	{ID: "snd-egg-crack", Name: "Egg Crack"},

	// Crowd
	{ID: "snd-slow-clap", Name: "Slow Clap"},
	{ID: "snd-crowd-boo", Name: "Crowd Boo"},
	{ID: "snd-crowd-gasp", Name: "Crowd Gasp"},
	{ID: "snd-kids-cheer", Name: "Kids Cheering"},
	{ID: "snd-golf-clap", Name: "Polite Golf Clap"},
	{ID: "snd-laugh-track", Name: "Sitcom Laugh Track"},

	// Body, loosely speaking
	{ID: "snd-fart", Name: "Fart", Explicit: true},
	{ID: "snd-wet-fart", Name: "Wet Fart", Explicit: true},
	{ID: "snd-nose-blow", Name: "Nose Blow"},
	{ID: "snd-knuckle-crack", Name: "Knuckle Crack"},
	{ID: "snd-stomach-growl", Name: "Stomach Growl"},

	// Misc chaos
	{ID: "snd-bowling-strike", Name: "Bowling Strike"},
	{ID: "snd-slide-whistle", Name: "Slide Whistle"},
	{ID: "snd-boing", Name: "Cartoon Boing"},
	{ID: "snd-anvil-drop", Name: "Anvil Drop"},
	{ID: "snd-ufo", Name: "UFO Hum"},
	{ID: "snd-foghorn", Name: "Foghorn"},
}
