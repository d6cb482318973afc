package team

import "math"

// QualificationStatus tracks one player's progress toward the per-format
// playoff quota.
type QualificationStatus struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Games8    int    `json:"games_8ball"`
	Games9    int    `json:"games_9ball"`
	Needed    int    `json:"needed"`
	Qualified bool   `json:"qualified"`
}

// PlayerWinRate is a chart-ready per-player win percentage across both
// formats, covering only players with at least one game this session.
type PlayerWinRate struct {
	PlayerID   string  `json:"player_id"`
	Name       string  `json:"name"`
	TotalGames int     `json:"total_games"`
	WinRate    float64 `json:"win_rate"`
}

// MatchPoint is one step of the session win/loss timeline.
type MatchPoint struct {
	MatchNumber int `json:"match_number"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
}

// Summary holds the aggregates the presentation layer renders: playoff
// qualification, format totals, and session performance.
type Summary struct {
	PlayerCount     int                   `json:"player_count"`
	ActivePlayers   int                   `json:"active_players"`
	InactivePlayers int                   `json:"inactive_players"`
	QualifiedCount  int                   `json:"qualified_count"`
	Qualification   []QualificationStatus `json:"qualification"`
	TotalGames8     int                   `json:"total_games_8ball"`
	TotalGames9     int                   `json:"total_games_9ball"`
	AvgSkill8       float64               `json:"avg_skill_8ball"`
	AvgSkill9       float64               `json:"avg_skill_9ball"`
	MatchCount      int                   `json:"match_count"`
	TotalWins       int                   `json:"total_wins"`
	TotalLosses     int                   `json:"total_losses"`
	SessionWinRate  float64               `json:"session_win_rate"`
	PlayerWinRates  []PlayerWinRate       `json:"player_win_rates"`
	Timeline        []MatchPoint          `json:"timeline"`
}

// BuildSummary computes the dashboard aggregates from the live roster and
// match list. Qualification and skill averages consider active players
// only; inactive players keep contributing to win-rate history.
func BuildSummary(players []Player, matches []*Match) *Summary {
	s := &Summary{
		PlayerCount:    len(players),
		MatchCount:     len(matches),
		Qualification:  []QualificationStatus{},
		PlayerWinRates: []PlayerWinRate{},
		Timeline:       []MatchPoint{},
	}

	var skill8Sum, skill9Sum int
	for _, p := range players {
		if !p.Active {
			s.InactivePlayers++
			continue
		}
		s.ActivePlayers++
		skill8Sum += p.Skill8
		skill9Sum += p.Skill9
		s.TotalGames8 += p.Games8
		s.TotalGames9 += p.Games9

		status := QualificationStatus{
			PlayerID:  p.ID,
			Name:      p.Name,
			Games8:    p.Games8,
			Games9:    p.Games9,
			Needed:    QualificationThreshold,
			Qualified: p.Qualified(),
		}
		if status.Qualified {
			s.QualifiedCount++
		}
		s.Qualification = append(s.Qualification, status)
	}
	if s.ActivePlayers > 0 {
		s.AvgSkill8 = round1(float64(skill8Sum) / float64(s.ActivePlayers))
		s.AvgSkill9 = round1(float64(skill9Sum) / float64(s.ActivePlayers))
	}

	for _, p := range players {
		totalGames := p.Games8 + p.Games9
		if totalGames == 0 {
			continue
		}
		s.PlayerWinRates = append(s.PlayerWinRates, PlayerWinRate{
			PlayerID:   p.ID,
			Name:       p.Name,
			TotalGames: totalGames,
			WinRate:    round1(float64(p.Wins8+p.Wins9) / float64(totalGames) * 100),
		})
	}

	for i, m := range matches {
		s.TotalWins += m.TotalWins
		s.TotalLosses += m.TotalLosses
		s.Timeline = append(s.Timeline, MatchPoint{
			MatchNumber: i + 1,
			Wins:        m.TotalWins,
			Losses:      m.TotalLosses,
		})
	}
	if totalGames := s.TotalWins + s.TotalLosses; totalGames > 0 {
		s.SessionWinRate = round1(float64(s.TotalWins) / float64(totalGames) * 100)
	}

	return s
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
