package models

// Position is a catalog entry. The catalog is loaded once and never written.
type Position struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	RequiredSkills   []string `json:"requiredSkills"`
	DomainQuestions  []string `json:"domainQuestions"`
}

// PositionSummary is what position cards show; it leaves out the questions.
type PositionSummary struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	RequiredSkills   []string `json:"requiredSkills"`
}

func (p Position) Summary() PositionSummary {
	return PositionSummary{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Responsibilities: p.Responsibilities,
		RequiredSkills:   p.RequiredSkills,
	}
}
