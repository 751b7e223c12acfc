package wiseoldman

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

func UnmarshalSnapshot(data []byte) (Snapshot, error) {

	// unmarshal
	var raw struct {
		Username       string
		DisplayName    string
		LatestSnapshot *struct {
			CreatedAt time.Time
			Data      struct {
				Bosses map[string]struct {
					Metric string
					Kills  int
					Rank   int
					Ehb    float64
				}
			}
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, err
	}
	if raw.Username == "" {
		return Snapshot{}, fmt.Errorf("username not found among received data")
	}
	if raw.LatestSnapshot == nil {
		return Snapshot{}, fmt.Errorf("player %s has no snapshot yet", raw.Username)
	}

	// bosses
	bosses := make([]BossData, 0, len(raw.LatestSnapshot.Data.Bosses))
	for key, boss := range raw.LatestSnapshot.Data.Bosses {
		metric := boss.Metric
		if metric == "" {
			metric = key
		}
		bosses = append(bosses, BossData{Metric: metric, Kills: boss.Kills, Rank: boss.Rank, Ehb: boss.Ehb})
	}
	sort.Slice(bosses, func(i, j int) bool { return bosses[i].Metric < bosses[j].Metric })

	return Snapshot{
		Username:    raw.Username,
		DisplayName: raw.DisplayName,
		CreatedAt:   raw.LatestSnapshot.CreatedAt,
		Bosses:      bosses,
	}, nil
}
