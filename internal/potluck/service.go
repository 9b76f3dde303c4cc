package potluck

import (
	"context"
	"errors"
	"time"

	"party-squares/internal/squares"
)

// Store persists entries and votes. InsertEntry must return
// ErrEntryExists when the participant already has an entry. Update and
// delete apply the owner predicate in the statement itself; a nil owner
// matches any row.
type Store interface {
	ListEntries(ctx context.Context) ([]Entry, error)
	EntryByID(ctx context.Context, id uint) (Entry, error)
	EntryByParticipant(ctx context.Context, p squares.Participant) (Entry, error)
	InsertEntry(ctx context.Context, entry *Entry) error
	UpdateEntry(ctx context.Context, id uint, owner squares.Participant, in EntryInput) (int64, error)
	DeleteEntry(ctx context.Context, id uint, owner *squares.Participant) (int64, error)

	ListVotes(ctx context.Context) ([]Vote, error)
	VoteByParticipant(ctx context.Context, p squares.Participant) (Vote, error)
	UpsertVote(ctx context.Context, vote *Vote) error

	VotingState(ctx context.Context) (VotingState, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func validateEntry(in EntryInput) (EntryInput, error) {
	in = in.normalized()
	if in.Title == "" || in.Description == "" {
		return in, ErrMissingFields
	}
	if len(in.Title) > maxTitleLength || len(in.Description) > maxDescriptionLength || len(in.Notes) > maxNotesLength {
		return in, ErrFieldTooLong
	}
	return in, nil
}

func (s *Service) Entries(ctx context.Context) ([]Entry, error) {
	return s.store.ListEntries(ctx)
}

// VisibleEntries hides who brought what until entries are revealed.
func (s *Service) VisibleEntries(ctx context.Context, reveal bool) ([]Entry, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil || reveal {
		return entries, err
	}
	for i := range entries {
		entries[i] = entries[i].Anonymous()
	}
	return entries, nil
}

// EntryFor returns the participant's entry or ErrEntryNotFound.
func (s *Service) EntryFor(ctx context.Context, p squares.Participant) (Entry, error) {
	if !p.Valid() {
		return Entry{}, squares.ErrInvalidParticipant
	}
	return s.store.EntryByParticipant(ctx, p)
}

func (s *Service) CreateEntry(ctx context.Context, p squares.Participant, in EntryInput) (Entry, error) {
	if !p.Valid() {
		return Entry{}, squares.ErrInvalidParticipant
	}
	in, err := validateEntry(in)
	if err != nil {
		return Entry{}, err
	}
	now := s.now()
	entry := Entry{
		UserEmail:   p.Email,
		UserName:    p.DisplayName(),
		Title:       in.Title,
		Description: in.Description,
		NeedsPower:  in.NeedsPower,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.IsProxy() {
		id := p.ProxyID
		entry.ProxyID = &id
		entry.UserEmail = ""
	}
	if err := s.store.InsertEntry(ctx, &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *Service) UpdateEntry(ctx context.Context, id uint, p squares.Participant, in EntryInput) (Entry, error) {
	if !p.Valid() {
		return Entry{}, squares.ErrInvalidParticipant
	}
	in, err := validateEntry(in)
	if err != nil {
		return Entry{}, err
	}
	affected, err := s.store.UpdateEntry(ctx, id, p, in)
	if err != nil {
		return Entry{}, err
	}
	if affected == 0 {
		return Entry{}, ErrEntryNotFound
	}
	return s.store.EntryByID(ctx, id)
}

func (s *Service) DeleteEntry(ctx context.Context, id uint, p squares.Participant) error {
	if !p.Valid() {
		return squares.ErrInvalidParticipant
	}
	affected, err := s.store.DeleteEntry(ctx, id, &p)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// DeleteProxyEntry is the admin path; entries owned by real users are
// left to their owners.
func (s *Service) DeleteProxyEntry(ctx context.Context, id uint) error {
	entry, err := s.store.EntryByID(ctx, id)
	if err != nil {
		return err
	}
	if !entry.IsProxy() {
		return ErrNotProxyEntry
	}
	participant := squares.Participant{ProxyID: *entry.ProxyID}
	affected, err := s.store.DeleteEntry(ctx, id, &participant)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Service) VoteFor(ctx context.Context, p squares.Participant) (Vote, error) {
	if !p.Valid() {
		return Vote{}, squares.ErrInvalidParticipant
	}
	return s.store.VoteByParticipant(ctx, p)
}

// CastVote records or replaces the participant's ballot while voting is
// open.
func (s *Service) CastVote(ctx context.Context, p squares.Participant, ballot Ballot) (Vote, error) {
	if !p.Valid() {
		return Vote{}, squares.ErrInvalidParticipant
	}
	state, err := s.store.VotingState(ctx)
	if err != nil {
		return Vote{}, err
	}
	if !state.Active {
		return Vote{}, ErrVotingInactive
	}
	if state.Locked {
		return Vote{}, ErrVotingLocked
	}
	return s.saveBallot(ctx, p, ballot)
}

// CastProxyVote is entered by an admin for a proxy and ignores the
// voting toggles.
func (s *Service) CastProxyVote(ctx context.Context, p squares.Participant, ballot Ballot) (Vote, error) {
	if !p.IsProxy() || !p.Valid() {
		return Vote{}, squares.ErrInvalidParticipant
	}
	return s.saveBallot(ctx, p, ballot)
}

func (s *Service) saveBallot(ctx context.Context, p squares.Participant, ballot Ballot) (Vote, error) {
	ids := ballot.ids()
	for _, id := range ids {
		if id == 0 {
			return Vote{}, ErrIncompleteVote
		}
	}
	if ids[0] == ids[1] || ids[0] == ids[2] || ids[1] == ids[2] {
		return Vote{}, ErrDuplicateSelection
	}

	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return Vote{}, err
	}
	known := make(map[uint]Entry, len(entries))
	for _, entry := range entries {
		known[entry.ID] = entry
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return Vote{}, ErrInvalidEntry
		}
	}

	own, err := s.store.EntryByParticipant(ctx, p)
	switch {
	case err == nil:
		for _, id := range ids {
			if id == own.ID {
				return Vote{}, ErrSelfVote
			}
		}
	case !errors.Is(err, ErrEntryNotFound):
		return Vote{}, err
	}

	now := s.now()
	vote := Vote{
		VoterEmail:         p.Email,
		VoterName:          p.DisplayName(),
		FirstPlaceEntryID:  ballot.First,
		SecondPlaceEntryID: ballot.Second,
		ThirdPlaceEntryID:  ballot.Third,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if p.IsProxy() {
		id := p.ProxyID
		vote.ProxyID = &id
		vote.VoterEmail = ""
	}
	if err := s.store.UpsertVote(ctx, &vote); err != nil {
		return Vote{}, err
	}
	return vote, nil
}

func (s *Service) Results(ctx context.Context) (Standings, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return Standings{}, err
	}
	votes, err := s.store.ListVotes(ctx)
	if err != nil {
		return Standings{}, err
	}
	return Tally(entries, votes), nil
}
