package domain

import (
	"fmt"
	"strconv"
)

// Section names of projectOne
const (
	SectionWhyUs     = "whyUs"
	SectionWhatWeDo  = "whatWeDo"
	SectionExclusive = "exclusive"
)

// Sections lists projectOne sub-sections in display order
var Sections = []string{SectionWhyUs, SectionWhatWeDo, SectionExclusive}

const fieldAllowComparisons = "allowComparisons"

func (w *WhyUs) stringFields() map[string]*string {
	return map[string]*string{
		"duration":      &w.Duration,
		"style":         &w.Style,
		"advantages":    &w.Advantages,
		"visualFactors": &w.VisualFactors,
		"painPoints":    &w.PainPoints,
		"visualSymbols": &w.VisualSymbols,
		"coreMessage":   &w.CoreMessage,
		"cta":           &w.CTA,
		"visualImagery": &w.VisualImagery,
	}
}

func (w *WhatWeDo) stringFields() map[string]*string {
	return map[string]*string{
		"duration":      &w.Duration,
		"structure":     &w.Structure,
		"coreMessage":   &w.CoreMessage,
		"environment":   &w.Environment,
		"servicesList":  &w.ServicesList,
		"workflow":      &w.Workflow,
		"equipment":     &w.Equipment,
		"finalOutput":   &w.FinalOutput,
		"cta":           &w.CTA,
		"visualImagery": &w.VisualImagery,
	}
}

func (e *Exclusive) stringFields() map[string]*string {
	return map[string]*string{
		"duration":           &e.Duration,
		"mood":               &e.Mood,
		"uniqueCapabilities": &e.UniqueCapabilities,
		"secretSauce":        &e.SecretSauce,
		"comparisonScenario": &e.ComparisonScenario,
		"abstractImagery":    &e.AbstractImagery,
		"technicalTerms":     &e.TechnicalTerms,
		"coreMessage":        &e.CoreMessage,
		"cta":                &e.CTA,
		"visualImagery":      &e.VisualImagery,
	}
}

func (p *ProjectOneData) section(name string) (map[string]*string, error) {
	switch name {
	case SectionWhyUs:
		return p.WhyUs.stringFields(), nil
	case SectionWhatWeDo:
		return p.WhatWeDo.stringFields(), nil
	case SectionExclusive:
		return p.Exclusive.stringFields(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}

// SetField assigns value to field of section. allowComparisons accepts a
// boolean literal ("true", "false", "1", "0").
func (p *ProjectOneData) SetField(section, field, value string) error {
	fields, err := p.section(section)
	if err != nil {
		return err
	}
	if section == SectionExclusive && field == fieldAllowComparisons {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s.%s expects a boolean", ErrInvalidValue, section, field)
		}
		p.Exclusive.AllowComparisons = b
		return nil
	}
	ptr, ok := fields[field]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
	}
	*ptr = value
	return nil
}

// Field returns the current value of a projectOne leaf as a string
func (p *ProjectOneData) Field(section, field string) (string, error) {
	fields, err := p.section(section)
	if err != nil {
		return "", err
	}
	if section == SectionExclusive && field == fieldAllowComparisons {
		return strconv.FormatBool(p.Exclusive.AllowComparisons), nil
	}
	ptr, ok := fields[field]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
	}
	return *ptr, nil
}

// LeafCount returns the number of leaves in projectOne and how many are filled.
// A leaf is filled when it is a non-empty string or a true boolean.
func (p *ProjectOneData) LeafCount() (total, filled int) {
	for _, name := range Sections {
		fields, _ := p.section(name)
		for _, ptr := range fields {
			total++
			if *ptr != "" {
				filled++
			}
		}
	}
	total++
	if p.Exclusive.AllowComparisons {
		filled++
	}
	return total, filled
}

func (r *ChallengeRow) fields() map[string]*string {
	return map[string]*string{
		"name":           &r.Name,
		"problem":        &r.Problem,
		"urgency":        &r.Urgency,
		"visualProblem":  &r.VisualProblem,
		"bridgeSentence": &r.BridgeSentence,
		"bridgeVisual":   &r.BridgeVisual,
		"rejectedIdeas":  &r.RejectedIdeas,
		"strategy":       &r.Strategy,
		"execution":      &r.Execution,
		"result":         &r.Result,
		"slogan":         &r.Slogan,
		"cta":            &r.CTA,
	}
}

// SetField assigns a named field. The id is not addressable.
func (r *ChallengeRow) SetField(field, value string) error {
	ptr, ok := r.fields()[field]
	if !ok {
		return fmt.Errorf("%w: challenge.%s", ErrUnknownField, field)
	}
	*ptr = value
	return nil
}

func (r *IconRow) fields() map[string]*string {
	return map[string]*string{
		"title":       &r.Title,
		"contextText": &r.ContextText,
		"elements":    &r.Elements,
		"actionType":  &r.ActionType,
		"link":        &r.Link,
	}
}

// SetField assigns a named field. actionType must be loop or once.
func (r *IconRow) SetField(field, value string) error {
	ptr, ok := r.fields()[field]
	if !ok {
		return fmt.Errorf("%w: icon.%s", ErrUnknownField, field)
	}
	if field == "actionType" && value != ActionLoop && value != ActionOnce {
		return fmt.Errorf("%w: actionType must be %q or %q", ErrInvalidValue, ActionLoop, ActionOnce)
	}
	*ptr = value
	return nil
}
