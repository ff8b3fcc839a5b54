package dto

import "github.com/xebia-france/xskillz-v2/internal/domain/skill"

type SkillResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	return SkillResponse{ID: s.ID, Name: s.Name}
}

type UserSkillResponse struct {
	SkillID    int64  `json:"skill_id"`
	SkillName  string `json:"skill_name"`
	Interested bool   `json:"interested"`
	Level      int    `json:"level"`
}

func NewUserSkillResponses(items []skill.Assignment) []UserSkillResponse {
	out := make([]UserSkillResponse, 0, len(items))
	for _, a := range items {
		out = append(out, UserSkillResponse{
			SkillID:    a.SkillID,
			SkillName:  a.SkillName,
			Interested: a.Interested,
			Level:      a.Level,
		})
	}
	return out
}

type SkillHolderResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdateEntryResponse struct {
	SkillLevel int    `json:"skill_level"`
	SkillName  string `json:"skill_name"`
	UserEmail  string `json:"user_email"`
	UserName   string `json:"user_name"`
}

func NewUpdateEntryResponses(items []skill.UpdateEntry) []UpdateEntryResponse {
	out := make([]UpdateEntryResponse, 0, len(items))
	for _, e := range items {
		out = append(out, UpdateEntryResponse{
			SkillLevel: e.SkillLevel,
			SkillName:  e.SkillName,
			UserEmail:  e.UserEmail,
			UserName:   e.UserName,
		})
	}
	return out
}
