package potluck

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	FirstPlacePoints  = 3
	SecondPlacePoints = 2
	ThirdPlacePoints  = 1

	maxTitleLength       = 80
	maxDescriptionLength = 500
	maxNotesLength       = 500
)

type Entry struct {
	ID          uint       `json:"id"`
	UserEmail   string     `json:"user_email,omitempty"`
	ProxyID     *uuid.UUID `json:"proxy_id,omitempty"`
	UserName    string     `json:"user_name,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	NeedsPower  bool       `json:"needs_power"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e Entry) IsProxy() bool {
	return e.ProxyID != nil
}

// Anonymous strips everything that identifies who brought the entry.
func (e Entry) Anonymous() Entry {
	e.UserEmail = ""
	e.UserName = ""
	e.ProxyID = nil
	return e
}

type EntryInput struct {
	Title       string
	Description string
	NeedsPower  bool
	Notes       string
}

func (in EntryInput) normalized() EntryInput {
	return EntryInput{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		NeedsPower:  in.NeedsPower,
		Notes:       strings.TrimSpace(in.Notes),
	}
}

type Vote struct {
	ID                 uint       `json:"id"`
	VoterEmail         string     `json:"voter_email,omitempty"`
	ProxyID            *uuid.UUID `json:"proxy_id,omitempty"`
	VoterName          string     `json:"voter_name"`
	FirstPlaceEntryID  uint       `json:"first_place_entry_id"`
	SecondPlaceEntryID uint       `json:"second_place_entry_id"`
	ThirdPlaceEntryID  uint       `json:"third_place_entry_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Ballot is a voter's ordered top three.
type Ballot struct {
	First  uint
	Second uint
	Third  uint
}

func (b Ballot) ids() [3]uint {
	return [3]uint{b.First, b.Second, b.Third}
}

type VotingState struct {
	Active bool
	Locked bool
}

type Result struct {
	Entry Entry `json:"entry"`
	Score int   `json:"score"`
}

type Standings struct {
	Results []Result `json:"results"`
	Winner  *Result  `json:"winner"`
}
