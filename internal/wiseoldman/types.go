package wiseoldman

import (
	"fmt"
	"time"
)

// Kill count of one boss in a snapshot. Kills and rank are -1
// when the player is not ranked for the boss
type BossData struct {
	Metric string
	Kills  int
	Rank   int
	Ehb    float64
}

type Snapshot struct {
	Username    string
	DisplayName string
	CreatedAt   time.Time
	Bosses      []BossData
}

func (snapshot *Snapshot) String() string {
	return fmt.Sprintf("%s (%d bosses at %s)", snapshot.DisplayName, len(snapshot.Bosses), snapshot.CreatedAt.Format(time.RFC3339))
}

func (snapshot *Snapshot) Boss(metric string) (BossData, bool) {
	for _, data := range snapshot.Bosses {
		if data.Metric == metric {
			return data, true
		}
	}
	return BossData{}, false
}
