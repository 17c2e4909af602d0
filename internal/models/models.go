package models

import (
	"encoding/json"
	"time"
)

type Question struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Text        string    `json:"text"`
	NumComments int       `json:"numComments"`
	NumLikes    int       `json:"numLikes"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Comment struct {
	ID          string    `json:"id"`
	Text        *string   `json:"text"`
	Image       *string   `json:"image"`
	GIF         *string   `json:"gif"`
	NumComments int       `json:"numComments"`
	NumLikes    int       `json:"numLikes"`
	Parent      *string   `json:"parent"`
	Profile     Profile   `json:"profile"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile is the author snapshot embedded in every comment.
type Profile struct {
	FirstName   string  `json:"firstName"`
	Personality *string `json:"personality"`
	Horoscope   *string `json:"horoscope"`
	Anneagram   *string `json:"anneagram"`
	Picture     *string `json:"picture"`
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var raw struct {
		plain
		Onneagram *string `json:"onneagram"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Profile(raw.plain)
	if p.Anneagram == nil {
		p.Anneagram = raw.Onneagram
	}
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	type plain Question
	if q.Comments == nil {
		q.Comments = []Comment{}
	}
	return json.Marshal(plain(q))
}

func (c Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	if c.Comments == nil {
		c.Comments = []Comment{}
	}
	return json.Marshal(plain(c))
}

// Clone returns a deep copy of the question, comment tree included.
func (q *Question) Clone() *Question {
	out := *q
	out.Comments = cloneComments(q.Comments)
	return &out
}

func (c *Comment) Clone() Comment {
	out := *c
	out.Text = clonePtr(c.Text)
	out.Image = clonePtr(c.Image)
	out.GIF = clonePtr(c.GIF)
	out.Parent = clonePtr(c.Parent)
	out.Profile = c.Profile.Clone()
	out.Comments = cloneComments(c.Comments)
	return out
}

func (p Profile) Clone() Profile {
	p.Personality = clonePtr(p.Personality)
	p.Horoscope = clonePtr(p.Horoscope)
	p.Anneagram = clonePtr(p.Anneagram)
	p.Picture = clonePtr(p.Picture)
	return p
}

func cloneComments(in []Comment) []Comment {
	if in == nil {
		return nil
	}
	out := make([]Comment, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
