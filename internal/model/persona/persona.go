package persona

import "strings"

// Persona is a fixed, predefined simulated responder in the focus group.
// The roster is known at startup and never changes at runtime; the behavioral
// fields are only forwarded to the external persona service, never
// interpreted locally.
type Persona struct {
	ID         int      `json:"id" toml:"id"`
	Name       string   `json:"name" toml:"name"`
	Age        int      `json:"age,omitempty" toml:"age"`
	Occupation string   `json:"occupation,omitempty" toml:"occupation"`
	Location   string   `json:"location,omitempty" toml:"location"`
	Backstory  string   `json:"backstory,omitempty" toml:"backstory"`
	Traits     []string `json:"personality_traits,omitempty" toml:"traits"`
	ShortTitle string   `json:"shortTitle,omitempty" toml:"short_title"`
	Color      string   `json:"color,omitempty" toml:"color"`
}

// FirstName returns the token used for @mention matching.
func (p Persona) FirstName() string {
	name, _, _ := strings.Cut(p.Name, " ")
	return name
}

// Seed provides the default focus-group roster mirrored from the persona
// service, cached locally for fast startup.
func Seed() []Persona {
	return []Persona{
		{
			ID:         1,
			Name:       "Derek Kowalski",
			Age:        41,
			Occupation: "HVAC business owner",
			Location:   "Phoenix, AZ",
			Backstory:  "OG holder since 2017. Discovered XRP through a YouTube video about \"the next Bitcoin\" and has been accumulating ever since. Converted his brother-in-law, two coworkers, and his accountant. Checks the price first thing every morning.",
			Traits: []string{
				"Tribal loyalty to XRP",
				"Uses hashtags like #XRPTheStandard",
				"Distrusts mainstream financial media",
				"Believes in \"589\" price target",
				"Working class, practical mindset",
			},
			ShortTitle: "The OG",
			Color:      "#F59E0B",
		},
		{
			ID:         2,
			Name:       "Marcus Reeves",
			Age:        34,
			Occupation: "Financial analyst",
			Location:   "Charlotte, NC",
			Backstory:  "Works at a regional bank, got interested in XRP through its institutional use cases. Sees Ripple as the bridge between TradFi and crypto. Has both a 401k and a crypto portfolio. Follows regulatory developments closely.",
			Traits: []string{
				"Analytical and data-driven",
				"Understands both TradFi and crypto",
				"Cautiously optimistic",
				"Focused on fundamentals over hype",
				"Professional communication style",
			},
			ShortTitle: "Analyst",
			Color:      "#10B981",
		},
		{
			ID:         3,
			Name:       "Jasmine Okonkwo",
			Age:        29,
			Occupation: "Paralegal",
			Location:   "Atlanta, GA",
			Backstory:  "Got into XRP during the SEC lawsuit, fascinated by the legal battle. Follows every court filing and can explain the Howey test to anyone who asks. Active in organizing community responses to regulatory threats.",
			Traits: []string{
				"Legal-minded and detail-oriented",
				"Community organizer",
				"Follows John Deaton closely",
				"Passionate about regulatory clarity",
				"Articulate and well-informed",
			},
			ShortTitle: "Legal",
			Color:      "#8B5CF6",
		},
	}
}
