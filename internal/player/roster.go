package player

import (
	"bossbot/internal/common"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidName    = common.NewError(common.ValidationError, "player name is empty")
	ErrPlayerNotFound = common.NewError(common.PreconditionError, "player is not registered")
	ErrDiscordLinked  = common.NewError(common.PreconditionError, "discord user is already linked")
	ErrNameLinked     = common.NewError(common.PreconditionError, "player name is already linked")
	ErrNoPlayers      = common.NewError(common.PreconditionError, "no players registered")
)

// Players linked to a Discord user, stored as a list in a JSON file.
// Every change is saved before it is visible
type Roster struct {
	mu       sync.RWMutex
	players  []Player
	database *common.Database
}

func LoadRoster(filename string) (*Roster, error) {

	roster := &Roster{database: common.NewDatabase(filename)}
	err := roster.database.Load(&roster.players)
	if errors.Is(err, common.ErrNoData) {
		log.Info().Msg("No stored players, starting with an empty roster")
		return roster, nil
	}
	if err != nil {
		return nil, common.Wrap(common.ValidationError, "could not load players", err)
	}

	// Check the identities are unique
	for i, p := range roster.players {
		roster.players[i].ExternalName = NormalizeName(p.ExternalName)
		if roster.players[i].ExternalName == "" {
			return nil, common.NewError(common.ValidationError, fmt.Sprintf("stored player %d has no name", i))
		}
		for _, other := range roster.players[:i] {
			if other.ExternalName == roster.players[i].ExternalName || (p.DiscordID != "" && other.DiscordID == p.DiscordID) {
				return nil, common.NewError(common.ValidationError, fmt.Sprintf("stored player %s appears twice", p.ExternalName))
			}
		}
	}
	log.Info().Msg(fmt.Sprintf("Loaded %d players", len(roster.players)))
	return roster, nil
}

func (roster *Roster) Len() int {
	roster.mu.RLock()
	defer roster.mu.RUnlock()
	return len(roster.players)
}

// Copy of every player, in registration order
func (roster *Roster) Players() []Player {
	roster.mu.RLock()
	defer roster.mu.RUnlock()

	players := make([]Player, len(roster.players))
	for i, p := range roster.players {
		players[i] = p.Clone()
	}
	return players
}

func (roster *Roster) ByDiscordID(discordID string) (Player, bool) {
	roster.mu.RLock()
	defer roster.mu.RUnlock()

	for _, p := range roster.players {
		if p.DiscordID == discordID {
			return p.Clone(), true
		}
	}
	return Player{}, false
}

func (roster *Roster) ByExternalName(name string) (Player, bool) {
	roster.mu.RLock()
	defer roster.mu.RUnlock()

	if index := roster.index(NormalizeName(name)); index != -1 {
		return roster.players[index].Clone(), true
	}
	return Player{}, false
}

// Find a player by stats name, discord name or discord id
func (roster *Roster) Find(name string) (Player, bool) {
	if p, ok := roster.ByExternalName(name); ok {
		return p, true
	}

	roster.mu.RLock()
	defer roster.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, p := range roster.players {
		if strings.EqualFold(p.DiscordName, name) || p.DiscordID == name {
			return p.Clone(), true
		}
	}
	return Player{}, false
}

func (roster *Roster) index(externalName string) int {
	for i, p := range roster.players {
		if p.ExternalName == externalName {
			return i
		}
	}
	return -1
}

func (roster *Roster) Add(p Player) error {

	roster.mu.Lock()
	defer roster.mu.Unlock()

	p.ExternalName = NormalizeName(p.ExternalName)
	if p.ExternalName == "" {
		return ErrInvalidName
	}
	for _, other := range roster.players {
		if other.DiscordID == p.DiscordID {
			return fmt.Errorf("%s is linked to %s: %w", p.DiscordName, other.ExternalName, ErrDiscordLinked)
		}
		if other.ExternalName == p.ExternalName {
			return fmt.Errorf("%s is linked to %s: %w", p.ExternalName, other.DiscordName, ErrNameLinked)
		}
	}

	players := append(roster.clone(), p.Clone())
	if err := roster.save(players); err != nil {
		return err
	}
	log.Info().Msg(fmt.Sprintf("Added player %s linked to %s", p.ExternalName, p.DiscordName))
	return nil
}

func (roster *Roster) Remove(externalName string) (Player, error) {

	roster.mu.Lock()
	defer roster.mu.Unlock()

	index := roster.index(NormalizeName(externalName))
	if index == -1 {
		return Player{}, fmt.Errorf("%s: %w", externalName, ErrPlayerNotFound)
	}

	removed := roster.players[index]
	players := roster.clone()
	players = append(players[:index], players[index+1:]...)
	if err := roster.save(players); err != nil {
		return Player{}, err
	}
	log.Info().Msg(fmt.Sprintf("Removed player %s", removed.ExternalName))
	return removed, nil
}

// Apply a change to one player. The change is dropped if it cannot be saved
func (roster *Roster) update(externalName string, change func(p *Player)) (Player, error) {

	roster.mu.Lock()
	defer roster.mu.Unlock()

	index := roster.index(NormalizeName(externalName))
	if index == -1 {
		return Player{}, fmt.Errorf("%s: %w", externalName, ErrPlayerNotFound)
	}

	players := roster.clone()
	change(&players[index])
	if err := roster.save(players); err != nil {
		return Player{}, err
	}
	return players[index].Clone(), nil
}

func (roster *Roster) clone() []Player {
	players := make([]Player, len(roster.players))
	for i, p := range roster.players {
		players[i] = p.Clone()
	}
	return players
}

// Must hold the lock
func (roster *Roster) save(players []Player) error {
	if err := roster.database.Save(players); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not save players: %s", err))
		return common.Wrap(common.ResourceError, "could not save players", err)
	}
	roster.players = players
	return nil
}
