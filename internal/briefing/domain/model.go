package domain

import "time"

// ClientRecord is the full briefing of one client identity
type ClientRecord struct {
	ProjectOne   ProjectOneData `json:"projectOne" firestore:"projectOne"`
	ProjectTwo   []ChallengeRow `json:"projectTwo" firestore:"projectTwo"`
	ProjectThree []IconRow      `json:"projectThree" firestore:"projectThree"`
}

// ProjectOneData holds the three motion-graphics scripts
type ProjectOneData struct {
	WhyUs     WhyUs     `json:"whyUs" firestore:"whyUs"`
	WhatWeDo  WhatWeDo  `json:"whatWeDo" firestore:"whatWeDo"`
	Exclusive Exclusive `json:"exclusive" firestore:"exclusive"`
}

type WhyUs struct {
	Duration      string `json:"duration" firestore:"duration"`
	Style         string `json:"style" firestore:"style"` // speed, calm, other
	Advantages    string `json:"advantages" firestore:"advantages"`
	VisualFactors string `json:"visualFactors" firestore:"visualFactors"`
	PainPoints    string `json:"painPoints" firestore:"painPoints"`
	VisualSymbols string `json:"visualSymbols" firestore:"visualSymbols"`
	CoreMessage   string `json:"coreMessage" firestore:"coreMessage"`
	CTA           string `json:"cta" firestore:"cta"`
	VisualImagery string `json:"visualImagery" firestore:"visualImagery"`
}

type WhatWeDo struct {
	Duration      string `json:"duration" firestore:"duration"`
	Structure     string `json:"structure" firestore:"structure"` // linear, categorical, other
	CoreMessage   string `json:"coreMessage" firestore:"coreMessage"`
	Environment   string `json:"environment" firestore:"environment"`
	ServicesList  string `json:"servicesList" firestore:"servicesList"`
	Workflow      string `json:"workflow" firestore:"workflow"`
	Equipment     string `json:"equipment" firestore:"equipment"`
	FinalOutput   string `json:"finalOutput" firestore:"finalOutput"`
	CTA           string `json:"cta" firestore:"cta"`
	VisualImagery string `json:"visualImagery" firestore:"visualImagery"`
}

type Exclusive struct {
	Duration           string `json:"duration" firestore:"duration"`
	Mood               string `json:"mood" firestore:"mood"` // pioneer, powerful, mysterious, other
	AllowComparisons   bool   `json:"allowComparisons" firestore:"allowComparisons"`
	UniqueCapabilities string `json:"uniqueCapabilities" firestore:"uniqueCapabilities"`
	SecretSauce        string `json:"secretSauce" firestore:"secretSauce"`
	ComparisonScenario string `json:"comparisonScenario" firestore:"comparisonScenario"`
	AbstractImagery    string `json:"abstractImagery" firestore:"abstractImagery"`
	TechnicalTerms     string `json:"technicalTerms" firestore:"technicalTerms"`
	CoreMessage        string `json:"coreMessage" firestore:"coreMessage"`
	CTA                string `json:"cta" firestore:"cta"`
	VisualImagery      string `json:"visualImagery" firestore:"visualImagery"`
}

// ChallengeRow is one episode of the challenges series
type ChallengeRow struct {
	ID             string `json:"id" firestore:"id"`
	Name           string `json:"name" firestore:"name"`
	Problem        string `json:"problem" firestore:"problem"`
	Urgency        string `json:"urgency" firestore:"urgency"`
	VisualProblem  string `json:"visualProblem" firestore:"visualProblem"`
	BridgeSentence string `json:"bridgeSentence" firestore:"bridgeSentence"`
	BridgeVisual   string `json:"bridgeVisual" firestore:"bridgeVisual"`
	RejectedIdeas  string `json:"rejectedIdeas" firestore:"rejectedIdeas"`
	Strategy       string `json:"strategy" firestore:"strategy"`
	Execution      string `json:"execution" firestore:"execution"`
	Result         string `json:"result" firestore:"result"`
	Slogan         string `json:"slogan" firestore:"slogan"`
	CTA            string `json:"cta" firestore:"cta"`
}

// IconRow describes one animated icon loop
type IconRow struct {
	ID          string `json:"id" firestore:"id"`
	Title       string `json:"title" firestore:"title"`
	ContextText string `json:"contextText" firestore:"contextText"`
	Elements    string `json:"elements" firestore:"elements"`
	ActionType  string `json:"actionType" firestore:"actionType"` // loop, once
	Link        string `json:"link" firestore:"link"`
}

// ActionType values for IconRow
const (
	ActionLoop = "loop"
	ActionOnce = "once"
)

// DefaultBridgeSentence is prefilled on every new challenge row
const DefaultBridgeSentence = "We carry on the path of our ancestors"

// Envelope is the server-side storage shape. LastUpdated is write-only metadata.
type Envelope struct {
	LastUpdated time.Time    `json:"lastUpdated" firestore:"lastUpdated"`
	Data        ClientRecord `json:"data" firestore:"data"`
}

// Role of an authenticated identity
type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Session is the transient identity resolved at login
type Session struct {
	IdentityName string `json:"identityName"`
	Role         Role   `json:"role"`
	RecordKey    string `json:"recordKey"`
}

// CanEdit reports whether the session may mutate the loaded record
func (s Session) CanEdit() bool {
	return s.Role == RoleClient
}
