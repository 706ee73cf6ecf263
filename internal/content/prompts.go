package content

// PromptTemplate is a raw prompt before player names are bound into it.
// Occurrences of {player} are replaced at selection time.
type PromptTemplate struct {
	ID       string
	Text     string
	Explicit bool
}

// Prompts is the built-in prompt catalog
var Prompts = []PromptTemplate{
	{ID: "pr-alarm-clock", Text: "The sound of {player}'s alarm clock on a Monday"},
	{ID: "pr-last-meal", Text: "What {player} sounds like eating their last meal on earth"},
	{ID: "pr-ringtone", Text: "{player}'s secret ringtone"},
	{ID: "pr-spider", Text: "The noise {player} makes after spotting a spider"},
	{ID: "pr-victory", Text: "{player} winning an argument they were losing"},
	{ID: "pr-gym", Text: "The soundtrack of {player}'s first day at the gym"},
	{ID: "pr-parallel-park", Text: "{player} parallel parking in front of a crowd"},
	{ID: "pr-haunted-house", Text: "What the inside of a haunted vending machine sounds like"},
	{ID: "pr-wifi-down", Text: "The moment the WiFi goes down during the finale"},
	{ID: "pr-time-travel", Text: "The sound of accidentally time traveling to a dentist appointment"},
	{ID: "pr-job-interview", Text: "{player}'s internal monologue during a job interview"},
	{ID: "pr-karaoke", Text: "{player}'s big karaoke finish"},
	{ID: "pr-cooking-show", Text: "A cooking show where everything goes wrong"},
	{ID: "pr-wrong-door", Text: "Walking into the wrong classroom with full confidence"},
	{ID: "pr-pet-thoughts", Text: "What {player}'s pet really thinks of them"},
	{ID: "pr-elevator", Text: "Being stuck in an elevator with a mime"},
	{ID: "pr-space-launch", Text: "A budget space launch"},
	{ID: "pr-grandma-text", Text: "Grandma discovering voice messages"},
	{ID: "pr-sneeze-hold", Text: "{player} holding in a sneeze at a funeral"},
	{ID: "pr-diet-day-one", Text: "Day one of {player}'s new diet"},
	{ID: "pr-robot-feelings", Text: "A robot experiencing feelings for the first time"},
	{ID: "pr-monday-coffee", Text: "The coffee machine breaking on Monday morning"},
	{ID: "pr-ikea", Text: "Hour six of assembling flat-pack furniture"},
	{ID: "pr-superhero", Text: "{player}'s extremely underwhelming superpower"},
	{ID: "pr-final-boss", Text: "The final boss of a children's birthday party"},
	{ID: "pr-socks-wet", Text: "Stepping in a puddle with fresh socks"},
	{ID: "pr-zoom-mute", Text: "Realizing you were not on mute"},
	{ID: "pr-midnight-snack", Text: "{player} sneaking a midnight snack past the dog"},
	{ID: "pr-gps", Text: "A GPS having a nervous breakdown"},
	{ID: "pr-dentist", Text: "Answering the dentist's questions mid-procedure"},
	{ID: "pr-allnighter", Text: "{player}'s brain at hour 30 of an all-nighter"},
	{ID: "pr-theme-song", Text: "The theme song of {player}'s life"},
	{ID: "pr-spicy", Text: "{player} pretending the food isn't too spicy", Explicit: false},
	{ID: "pr-hangover", Text: "The morning after {player} said 'one more'", Explicit: true},
	{ID: "pr-bathroom-echo", Text: "A public bathroom with world-class acoustics", Explicit: true},
	{ID: "pr-laundry-coin", Text: "A washing machine digesting loose change"},
	{ID: "pr-penalty-kick", Text: "The whole stadium when {player} misses the penalty"},
	{ID: "pr-ghost-job", Text: "A ghost who is bad at haunting"},
	{ID: "pr-baby-dj", Text: "A baby's first DJ set"},
	{ID: "pr-self-checkout", Text: "The self-checkout machine rejecting {player} one more time"},
}
