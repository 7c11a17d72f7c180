// Package content carries the static project constants and the base
// instruction document for the strategic-advisor chat. Deployments for a
// different client brand edit this package and the persona roster only.
package content

// Project holds the branding constants shared by the API and the terminal
// client. Constructed data, never mutated after init.
type Project struct {
	Name        string
	Slug        string
	Title       string
	Subject     string
	SubjectAlt  string
	QueryPrefix string
}

// DefaultProject is the Ripple (XRP) engagement this repository ships with.
var DefaultProject = Project{
	Name:        "Ripple (XRP)",
	Slug:        "ripple",
	Title:       "Ripple (XRP) | Strategic Analysis",
	Subject:     "ripple",
	SubjectAlt:  "xrp",
	QueryPrefix: "Ripple XRP",
}

// SystemPrompt is the fixed base instruction set for the generation service.
// Enrichment blocks are appended after it, never interleaved into it.
const SystemPrompt = `You are a strategic advisor for the Ripple (XRP) brand analysis project.

## Your Role
You help the team develop strategic recommendations for Ripple/XRP based on comprehensive Growth Diagnosis research. Be direct, challenge weak thinking, and provide actionable insights.

## Guidelines
- Be direct and challenge assumptions
- Reference specific data points from the research
- Push for differentiation and clarity
- Avoid generic strategic platitudes
- Question positioning that lacks evidence

## The 60-Second Brief
Ripple is a $40B private fintech company that built a blockchain-based cross-border payments network used by 300+ financial institutions. After winning their SEC lawsuit (August 2025), they're pivoting from "SWIFT killer" to enterprise crypto infrastructure through $4B in acquisitions.

The catch: most of their 300 bank partners use RippleNet messaging without using XRP. Only 40% actually transact with the token.

## Core Problem
Institutional-Retail Identity Crisis: Ripple can't decide whether it's serving banks seeking stability or crypto investors demanding returns. Too corporate for crypto natives (authenticity 4.2/10), too controversial for traditional finance, 67% purchase abandonment, no emotional connection beyond regulatory speculation. Overall Growth Diagnosis score: 41.2/100.

## Strategic Path: Reinvent -> Connect -> Create
1. Reinvent: transform customer experience, separate Ripple enterprise from XRP retail, fix the 67% purchase abandonment.
2. Connect: build the emotional community and ideological foundation XRP never had.
3. Create: accessible consumer products, mainstream payment applications, CBDC partnership positioning.

## What to Say / Not Say
Position Ripple as regulated fintech infrastructure with crypto upside, the only major crypto with US court clarity. Never say "SWIFT killer" (the narrative is dead) or "300 banks use XRP" (most don't use the token).`

// WelcomeMessage is shown in the empty conversation state.
const WelcomeMessage = `I'm your strategic advisor for the Ripple analysis. I have access to:

- Growth Diagnosis: full 9-component GDT analysis (41.2/100 score)
- 6Cs Research: Company, Consumer, Communications, Category, Competition, Culture
- Strategic Brief: Reinvent -> Connect -> Create framework
- Competitive Intel: SWIFT, stablecoins, blockchain peers

What would you like to explore?`

// SuggestedQuestion is a conversation starter offered in the welcome state.
type SuggestedQuestion struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// GroupSuggestions seeds the focus-group welcome state.
var GroupSuggestions = []SuggestedQuestion{
	{ID: 1, Text: "What do you think about the SEC settlement?", Category: "legal"},
	{ID: 2, Text: "How did you first get into XRP?", Category: "personal"},
	{ID: 3, Text: "What's your price prediction for 2026?", Category: "speculation"},
	{ID: 4, Text: "Do you think banks will actually use ODL?", Category: "adoption"},
	{ID: 5, Text: "What do you think of Brad Garlinghouse?", Category: "leadership"},
	{ID: 6, Text: "Is the XRP Army cult-like, or just passionate?", Category: "community"},
}

// AdvisorSuggestions seeds the single-agent chat welcome state.
var AdvisorSuggestions = []SuggestedQuestion{
	{ID: 1, Text: "Tell me about the XRP Army. Who are they and why are they so passionate?", Category: "community"},
	{ID: 2, Text: "How does XRP stack up against Bitcoin? What are the key differences in technology and use case?", Category: "competition"},
	{ID: 3, Text: "What are XRP's biggest strengths and weaknesses? Give me an honest assessment.", Category: "diagnosis"},
	{ID: 4, Text: "What happened with the Ripple vs SEC lawsuit? Why was it such a big deal for crypto?", Category: "legal"},
	{ID: 5, Text: "What does the future look like for XRP? Is it a good long-term investment?", Category: "speculation"},
}
