package leaderboard

import (
	"context"
	"sort"

	"ticket-bot/model"
)

// Source is the part of the ledger the aggregator reads.
type Source interface {
	QueryLeaderboard(ctx context.Context, tf model.Timeframe, axis model.Axis) ([]model.LeaderboardRow, error)
	LeaderboardRoles(ctx context.Context) (map[string]model.LeaderboardRole, error)
}

type Aggregator struct {
	src Source
}

func New(src Source) *Aggregator {
	return &Aggregator{src: src}
}

// Build ranks every user with a positive value on axis within tf. Users
// without a leaderboard role are left out. Groups follow model.RoleOrder
// and roles nobody holds are omitted.
func (a *Aggregator) Build(ctx context.Context, tf model.Timeframe, axis model.Axis) (*model.Board, error) {
	rows, err := a.src.QueryLeaderboard(ctx, tf, axis)
	if err != nil {
		return nil, err
	}
	roles, err := a.src.LeaderboardRoles(ctx)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		entry model.BoardEntry
		value int64
	}
	byRole := make(map[model.LeaderboardRole][]ranked)
	for _, row := range rows {
		role, ok := roles[row.UserID]
		if !ok {
			continue
		}
		st := row.Stats()
		v := st.Value(tf, axis)
		if v <= 0 {
			continue
		}
		byRole[role] = append(byRole[role], ranked{
			entry: model.BoardEntry{
				UserID:  row.UserID,
				AllTime: st.Value(model.TimeframeAllTime, axis),
				Weekly:  st.Value(model.TimeframeWeekly, axis),
			},
			value: v,
		})
	}

	board := &model.Board{Timeframe: tf, Axis: axis}
	for _, role := range model.RoleOrder {
		members := byRole[role]
		if len(members) == 0 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].value != members[j].value {
				return members[i].value > members[j].value
			}
			return members[i].entry.UserID < members[j].entry.UserID
		})
		group := model.BoardGroup{Role: role, Entries: make([]model.BoardEntry, len(members))}
		for i, m := range members {
			group.Entries[i] = m.entry
		}
		board.Groups = append(board.Groups, group)
	}
	return board, nil
}
