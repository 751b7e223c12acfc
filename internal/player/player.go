package player

import (
	"bossbot/internal/wiseoldman"
	"sort"
	"strings"
)

// Kills of one boss for one player. TrackedKills is always
// LifetimeKills - KillOffset, the offset only moves on a baseline reset
type BossRecord struct {
	BossName      string `json:"name"`
	LifetimeKills int    `json:"kills"`
	TrackedKills  int    `json:"tracked_kills"`
	KillOffset    int    `json:"kill_offset"`
}

type Player struct {
	DiscordID    string       `json:"discord_id"`
	DiscordName  string       `json:"discord_name"`
	ExternalName string       `json:"osrs_name"`
	Bosses       []BossRecord `json:"bosses"`
}

// Names of the stats provider are compared lower cased and trimmed
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (p Player) Clone() Player {
	clone := p
	clone.Bosses = append([]BossRecord(nil), p.Bosses...)
	return clone
}

func (p Player) Record(bossName string) (BossRecord, bool) {
	for _, record := range p.Bosses {
		if record.BossName == bossName {
			return record, true
		}
	}
	return BossRecord{}, false
}

// Merge the kills of a snapshot into the records of the player.
// Bosses not in the snapshot keep their records
func (p *Player) Merge(snapshot wiseoldman.Snapshot, resetBaseline bool) {

	for _, data := range snapshot.Bosses {

		// Unranked bosses are reported with negative kills
		kills := max(data.Kills, 0)

		index := -1
		for i := range p.Bosses {
			if p.Bosses[i].BossName == data.Metric {
				index = i
				break
			}
		}
		if index == -1 {
			p.Bosses = append(p.Bosses, BossRecord{BossName: data.Metric})
			index = len(p.Bosses) - 1
		}

		record := &p.Bosses[index]
		record.LifetimeKills = kills
		if resetBaseline {
			record.KillOffset = kills
		}
		record.TrackedKills = record.LifetimeKills - record.KillOffset
	}
}

type Standing struct {
	Player Player
	Record BossRecord
}

// Players with a record for the boss, most tracked kills first
func Leaderboard(players []Player, bossName string) []Standing {
	standings := []Standing{}
	for _, p := range players {
		if record, ok := p.Record(bossName); ok {
			standings = append(standings, Standing{Player: p, Record: record})
		}
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Record.TrackedKills > standings[j].Record.TrackedKills
	})
	return standings
}
