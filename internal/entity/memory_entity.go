package entity

import "encoding/json"

// Memory is the structured state carried between journey stages. Slots are a
// closed, typed set so an invalid slot name is a compile error, not a runtime one.
type Memory struct {
	Profile      *Profile         `json:"profile,omitempty"`
	IdeaSet      []Idea           `json:"idea_set,omitempty"`
	SelectedIdea *SelectedIdea    `json:"selected_idea,omitempty"`
	Validation   json.RawMessage  `json:"validation_result,omitempty"`
	Requirements *RequirementsDoc `json:"requirements_document,omitempty"`
	BuildPrompt  string           `json:"build_prompt,omitempty"`
}

// Profile holds the intake slot filled during onboarding.
type Profile struct {
	Name      string `json:"name"`
	Interests string `json:"interests,omitempty"`
	Goals     string `json:"goals,omitempty"`
}

// Idea is one entry of the generated idea slate.
type Idea struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// SelectedIdea references an entry of the most recent idea slate. The copy of
// the text lets later stages survive a regeneration of the slate.
type SelectedIdea struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// RequirementsDoc is the structured PRD. Refinement replaces fields wholesale,
// it never merges.
type RequirementsDoc struct {
	Overview       string   `json:"overview"`
	Personas       []string `json:"personas"`
	UserStories    []string `json:"user_stories"`
	Functional     []string `json:"functional_requirements"`
	NonFunctional  []string `json:"nonfunctional_requirements"`
	SuccessMetrics []string `json:"success_metrics"`
}

// DecodeMemory deserializes the persisted memory column into its typed form.
func (s *JourneySession) DecodeMemory() *Memory {
	if len(s.Memory) == 0 {
		return &Memory{}
	}
	var m Memory
	if err := json.Unmarshal(s.Memory, &m); err != nil {
		return &Memory{}
	}
	return &m
}

// EncodeMemory serializes typed memory back into the persisted column.
func (s *JourneySession) EncodeMemory(m *Memory) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.Memory = data
	return nil
}
