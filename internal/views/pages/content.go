package pages

// Card is a titled block of copy.
type Card struct {
	Title       string
	Description string
}

// Stat is a headline figure on the about page.
type Stat struct {
	Value string
	Label string
}

var services = []Card{
	{Title: "Sound Systems", Description: "Crystal clear audio for any venue size. From intimate gatherings to large outdoor concerts."},
	{Title: "Lighting Design", Description: "Transform your venue with intelligent lighting, moving heads, lasers, and atmospheric effects."},
	{Title: "DJ Services", Description: "Professional DJs who know how to read the crowd and keep the energy high all night."},
	{Title: "Event Production", Description: "Full-service technical production including stage setup, trussing, and AV coordination."},
}

var showcase = []Card{
	{Title: "Outdoor Concerts", Description: "Massive sound reinforcement for large-scale outdoor events"},
	{Title: "Indoor Productions", Description: "Immersive lighting and sound for arena-style shows"},
}

var stats = []Stat{
	{Value: "10+", Label: "Years Experience"},
	{Value: "500+", Label: "Events Completed"},
	{Value: "100%", Label: "Client Satisfaction"},
}

var strengths = []Card{
	{Title: "Professional Equipment", Description: "We use only top-tier audio and lighting brands to ensure reliability and superior quality."},
	{Title: "Expert Team", Description: "Our technicians and DJs are industry veterans who know how to handle any scenario."},
	{Title: "Tailored Solutions", Description: "We customize every setup to match your venue, theme, and budget perfectly."},
}

var phoneNumbers = []string{"71 14 22 12", "76 98 25 98"}
