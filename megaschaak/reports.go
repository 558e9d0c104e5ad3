package megaschaak

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wsv-pion/clubsite/models"
)

// ratioEpsilon is the tolerance within which two value ratios count as tied;
// the cheaper player then ranks higher.
const ratioEpsilon = 0.001

// popularityLimit caps the popularity ranking.
const popularityLimit = 20

// classOrder is the fixed display order of classes in the cross-table.
var classOrder = []string{
	"Hoofdtoernooi",
	"Eerste Klasse",
	"Tweede Klasse",
	"Derde Klasse",
	"Vierde Klasse",
	"Vijfde Klasse",
	"Zesde Klasse",
	"Zevende Klasse",
	"Achtste Klasse",
}

func classRank(name string) int {
	for i, c := range classOrder {
		if c == name {
			return i
		}
	}
	return len(classOrder)
}

// TeamStanding is one row of the Megaschaak standings.
type TeamStanding struct {
	TeamID     int     `json:"team_id"`
	TeamName   string  `json:"team_name"`
	OwnerID    int     `json:"owner_id"`
	TotalScore float64 `json:"total_score"`
	TotalCost  int     `json:"total_cost"`
}

// CrossTable pairs every team with every pooled player.
type CrossTable struct {
	Teams   []CrossTableTeam   `json:"teams"`
	Players []CrossTablePlayer `json:"players"`
}

// CrossTablePlayer is one column header of the cross-table: the player with
// their own tournament standing and their accumulated Megaschaak score.
type CrossTablePlayer struct {
	PlayerID  int     `json:"player_id"`
	Name      string  `json:"name"`
	ClassName string  `json:"class_name"`
	Score     float64 `json:"score"`
	TieBreak  float64 `json:"tie_break"`
	GameScore float64 `json:"game_score"`
}

// CrossTableTeam is one row: the team's cells are aligned with the Players
// slice and hold the player's game score when the player is on the team,
// nil otherwise.
type CrossTableTeam struct {
	TeamID    int        `json:"team_id"`
	TeamName  string     `json:"team_name"`
	TotalCost int        `json:"total_cost"`
	Cells     []*float64 `json:"cells"`
}

// PlayerPopularity counts how many teams selected a player.
type PlayerPopularity struct {
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	TeamCount int    `json:"team_count"`
}

// PlayerValue is one row of the value-for-money ranking.
type PlayerValue struct {
	PlayerID    int     `json:"player_id"`
	Name        string  `json:"name"`
	ClassName   string  `json:"class_name"`
	TotalScore  float64 `json:"total_score"`
	GamesPlayed int     `json:"games_played"`
	Cost        int     `json:"cost"`
	ValueRatio  float64 `json:"value_ratio"`
}

// AvailablePlayer is one entry of the team-picker listing, priced fresh.
type AvailablePlayer struct {
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Youth     bool   `json:"youth"`
	ClassName string `json:"class_name"`
	Cost      int    `json:"cost"`
}

// leagueEditions loads all class editions of a league.
func (e *Engine) leagueEditions(ctx context.Context, leagueName string) ([]models.League, error) {
	editions, err := e.editions.ListEditionsByLeagueName(ctx, leagueName)
	if err != nil {
		return nil, fmt.Errorf("listing editions of %q: %w", leagueName, err)
	}
	if len(editions) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrLeagueNotFound, leagueName)
	}
	return editions, nil
}

// CheckDeadline enforces the registration-deadline gate for mutations that
// happen outside ValidateAndPriceTeam (team deletion). Admins bypass it.
func (e *Engine) CheckDeadline(ctx context.Context, leagueName string, asAdmin bool) error {
	if asAdmin {
		return nil
	}
	editions, err := e.leagueEditions(ctx, leagueName)
	if err != nil {
		return err
	}
	if e.now().After(editions[0].RegistrationDeadline) {
		return ErrDeadlinePassed
	}
	return nil
}

// gamesByPlayer indexes league games under both sides.
func gamesByPlayer(games []models.Game) map[int][]models.Game {
	byPlayer := make(map[int][]models.Game)
	for _, g := range games {
		byPlayer[g.Player1ID] = append(byPlayer[g.Player1ID], g)
		if g.Player2ID != nil {
			byPlayer[*g.Player2ID] = append(byPlayer[*g.Player2ID], g)
		}
	}
	return byPlayer
}

// gameScore is a player's accumulated Megaschaak score over their games.
func gameScore(byPlayer map[int][]models.Game, playerID int) float64 {
	var total float64
	for _, g := range byPlayer[playerID] {
		total += ScoreFor(g, playerID)
	}
	return total
}

// priceFromSlotOrRecompute makes the frozen-vs-fresh duality explicit: a
// slot's frozen cost is authoritative, and only slots without one fall back
// to a freshly computed cost.
func (e *Engine) priceFromSlotOrRecompute(ctx context.Context, slot models.MegaTeamSlot, className string, ids []int) int {
	if slot.Cost != nil {
		return *slot.Cost
	}
	return e.Cost(ctx, slot.PlayerID, className, ids)
}

// BuildStandings ranks every team of the league by the summed game scores of
// its ten slot players. Team cost is the frozen budget total; the reserve is
// excluded. Per-team sums are independent and computed concurrently.
func (e *Engine) BuildStandings(ctx context.Context, leagueName string) ([]TeamStanding, error) {
	editions, err := e.leagueEditions(ctx, leagueName)
	if err != nil {
		return nil, err
	}
	ids := editionIDs(editions)

	games, err := e.games.ListGames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	byPlayer := gamesByPlayer(games)

	teams, err := e.teams.ListTeams(ctx, leagueName)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	standings := make([]TeamStanding, len(teams))
	grp, _ := errgroup.WithContext(ctx)
	for i := range teams {
		i := i
		grp.Go(func() error {
			team := teams[i]
			row := TeamStanding{
				TeamID:   team.ID,
				TeamName: team.Name,
				OwnerID:  team.UserID,
			}
			for _, slot := range team.Slots {
				row.TotalScore += gameScore(byPlayer, slot.PlayerID)
				if slot.Cost != nil {
					row.TotalCost += *slot.Cost
				}
			}
			standings[i] = row
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalScore > standings[j].TotalScore
	})
	return standings, nil
}

// BuildCrossTable builds the full team × player matrix for the league.
func (e *Engine) BuildCrossTable(ctx context.Context, leagueName string) (*CrossTable, error) {
	editions, err := e.leagueEditions(ctx, leagueName)
	if err != nil {
		return nil, err
	}
	ids := editionIDs(editions)

	pool, classOf, err := e.leaguePool(ctx, editions)
	if err != nil {
		return nil, err
	}

	games, err := e.games.ListGames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	byPlayer := gamesByPlayer(games)

	players := make([]CrossTablePlayer, 0, len(pool))
	for _, entry := range pool {
		players = append(players, CrossTablePlayer{
			PlayerID:  entry.player.ID,
			Name:      entry.player.DisplayName(),
			ClassName: entry.className,
			Score:     entry.participation.Score,
			TieBreak:  entry.participation.TieBreak,
			GameScore: gameScore(byPlayer, entry.player.ID),
		})
	}
	sort.SliceStable(players, func(i, j int) bool {
		ri, rj := classRank(players[i].ClassName), classRank(players[j].ClassName)
		if ri != rj {
			return ri < rj
		}
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].TieBreak > players[j].TieBreak
	})

	teams, err := e.teams.ListTeams(ctx, leagueName)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	table := &CrossTable{Players: players, Teams: make([]CrossTableTeam, len(teams))}
	for i, team := range teams {
		row := CrossTableTeam{
			TeamID:   team.ID,
			TeamName: team.Name,
			Cells:    make([]*float64, len(players)),
		}
		for _, slot := range team.Slots {
			row.TotalCost += e.priceFromSlotOrRecompute(ctx, slot, classOf(slot.PlayerID), ids)
		}
		for c, p := range players {
			if team.HasPlayer(p.PlayerID) {
				score := p.GameScore
				row.Cells[c] = &score
			}
		}
		table.Teams[i] = row
	}
	return table, nil
}

// PopularPlayers returns the 20 most-selected players across the league's
// teams. Reserve slots do not count as a selection.
func (e *Engine) PopularPlayers(ctx context.Context, leagueName string) ([]PlayerPopularity, error) {
	editions, err := e.leagueEditions(ctx, leagueName)
	if err != nil {
		return nil, err
	}

	teams, err := e.teams.ListTeams(ctx, leagueName)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}

	counts := make(map[int]int)
	for _, team := range teams {
		for _, slot := range team.Slots {
			counts[slot.PlayerID]++
		}
	}

	known, err := e.players.ListPlayersByEditions(ctx, editionIDs(editions))
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	byID := make(map[int]models.Player, len(known))
	for _, p := range known {
		byID[p.ID] = p
	}

	ranking := make([]PlayerPopularity, 0, len(counts))
	for playerID, n := range counts {
		player, ok := byID[playerID]
		if !ok {
			if fetched, err := e.players.GetPlayer(ctx, playerID); err == nil && fetched != nil {
				player = *fetched
			} else {
				continue
			}
		}
		if e.excluded.Contains(player.FirstName, player.LastName) {
			continue
		}
		ranking = append(ranking, PlayerPopularity{
			PlayerID:  playerID,
			Name:      player.DisplayName(),
			TeamCount: n,
		})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].TeamCount != ranking[j].TeamCount {
			return ranking[i].TeamCount > ranking[j].TeamCount
		}
		return ranking[i].Name < ranking[j].Name
	})
	if len(ranking) > popularityLimit {
		ranking = ranking[:popularityLimit]
	}
	return ranking, nil
}

// ValuePlayers ranks every participant of the league, on a team or not, by
// score per scheduled round. Teamed players keep their frozen slot cost;
// everyone else is priced fresh. Per-player rows are independent and
// computed concurrently.
func (e *Engine) ValuePlayers(ctx context.Context, leagueName string) ([]PlayerValue, error) {
	editions, err := e.leagueEditions(ctx, leagueName)
	if err != nil {
		return nil, err
	}
	ids := editionIDs(editions)
	cfg := e.ResolveConfig(ctx, ids, "")

	pool, classOf, err := e.leaguePool(ctx, editions)
	if err != nil {
		return nil, err
	}

	games, err := e.games.ListGames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	byPlayer := gamesByPlayer(games)

	teams, err := e.teams.ListTeams(ctx, leagueName)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	frozen := make(map[int]*int)
	for _, team := range teams {
		for _, slot := range team.Slots {
			if _, seen := frozen[slot.PlayerID]; !seen {
				frozen[slot.PlayerID] = slot.Cost
			}
		}
	}

	values := make([]PlayerValue, len(pool))
	grp, _ := errgroup.WithContext(ctx)
	for i := range pool {
		i := i
		grp.Go(func() error {
			entry := pool[i]
			playerID := entry.player.ID
			row := PlayerValue{
				PlayerID:  playerID,
				Name:      entry.player.DisplayName(),
				ClassName: entry.className,
			}
			for _, g := range byPlayer[playerID] {
				row.TotalScore += ScoreFor(g, playerID)
				if IsPlayedGame(g.Result, g.OpponentOf(playerID)) {
					row.GamesPlayed++
				}
			}
			row.ValueRatio = row.TotalScore / float64(cfg.RoundsForClass(entry.className))

			if cost, onTeam := frozen[playerID]; onTeam && cost != nil {
				row.Cost = *cost
			} else {
				row.Cost = e.Cost(ctx, playerID, classOf(playerID), ids)
			}
			values[i] = row
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(values, func(i, j int) bool {
		if math.Abs(values[i].ValueRatio-values[j].ValueRatio) <= ratioEpsilon {
			return values[i].Cost < values[j].Cost
		}
		return values[i].ValueRatio > values[j].ValueRatio
	})
	return values, nil
}

// ListAvailablePlayers lists the league's pool for the team picker, each
// priced fresh with the current configuration. Excluded players are never
// listed.
func (e *Engine) ListAvailablePlayers(ctx context.Context, leagueName string) ([]AvailablePlayer, error) {
	editions, err := e.leagueEditions(ctx, leagueName)
	if err != nil {
		return nil, err
	}
	ids := editionIDs(editions)

	pool, _, err := e.leaguePool(ctx, editions)
	if err != nil {
		return nil, err
	}

	available := make([]AvailablePlayer, len(pool))
	grp, _ := errgroup.WithContext(ctx)
	for i := range pool {
		i := i
		grp.Go(func() error {
			entry := pool[i]
			available[i] = AvailablePlayer{
				PlayerID:  entry.player.ID,
				Name:      entry.player.DisplayName(),
				Rating:    entry.player.Rating,
				Youth:     entry.player.Youth,
				ClassName: entry.className,
				Cost:      e.Cost(ctx, entry.player.ID, entry.className, ids),
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(available, func(i, j int) bool {
		ri, rj := classRank(available[i].ClassName), classRank(available[j].ClassName)
		if ri != rj {
			return ri < rj
		}
		if available[i].Rating != available[j].Rating {
			return available[i].Rating > available[j].Rating
		}
		return available[i].Name < available[j].Name
	})
	return available, nil
}

// poolEntry joins a participation with its player and class.
type poolEntry struct {
	player        models.Player
	participation models.Participation
	className     string
}

// leaguePool collects every participant of the league's editions, with the
// exclusion list applied. The returned classOf resolves any player's class,
// defaulting to the Hoofdtoernooi.
func (e *Engine) leaguePool(ctx context.Context, editions []models.League) ([]poolEntry, func(playerID int) string, error) {
	ids := editionIDs(editions)

	classByEdition := make(map[int]string, len(editions))
	for _, ed := range editions {
		if ed.ClassName != nil {
			classByEdition[ed.ID] = *ed.ClassName
		}
	}

	parts, err := e.participations.ListParticipationsByEditions(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("listing participations: %w", err)
	}

	players, err := e.players.ListPlayersByEditions(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("listing players: %w", err)
	}
	byID := make(map[int]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	classes := make(map[int]string, len(parts))
	pool := make([]poolEntry, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		class, ok := classByEdition[part.LeagueID]
		if !ok {
			class = DefaultClassName
		}
		if _, dup := classes[part.PlayerID]; !dup {
			classes[part.PlayerID] = class
		}

		player, ok := byID[part.PlayerID]
		if !ok {
			continue
		}
		if e.excluded.Contains(player.FirstName, player.LastName) {
			continue
		}
		if _, dup := seen[part.PlayerID]; dup {
			continue
		}
		seen[part.PlayerID] = struct{}{}
		pool = append(pool, poolEntry{player: player, participation: part, className: class})
	}

	classOf := func(playerID int) string {
		if c, ok := classes[playerID]; ok {
			return c
		}
		return DefaultClassName
	}
	return pool, classOf, nil
}
