package game

// CardView is a card as shown to the UI.
type CardView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Name  string `json:"name,omitempty"`
	Value int    `json:"value,omitempty"`
}

// PlayerView is one seat's visible state.
type PlayerView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Team         int        `json:"team,omitempty"`
	Human        bool       `json:"human"`
	Position     int        `json:"position"`
	PathID       int        `json:"path_id"`
	Stars        int        `json:"stars"`
	Eliminated   bool       `json:"eliminated"`
	LiveScore    int        `json:"live_score"`
	Revealed     bool       `json:"revealed"`
	HandCount    int        `json:"hand_count"`
	Hand         []CardView `json:"hand,omitempty"`
	PlayedValue  []CardView `json:"played_value"`
	PlayedEffect []CardView `json:"played_effect"`
	ScoreEffect  string     `json:"score_effect,omitempty"`
	MoveEffect   string     `json:"move_effect,omitempty"`
}

// SpaceView is one board cell.
type SpaceView struct {
	Color  string `json:"color"`
	Effect string `json:"effect,omitempty"`
	Used   bool   `json:"used"`
}

// GameView is the full snapshot broadcast after every visible change.
type GameView struct {
	MatchID       string        `json:"match_id"`
	Turn          int           `json:"turn"`
	Phase         string        `json:"phase"`
	Mode          string        `json:"mode"`
	Battle        string        `json:"battle,omitempty"`
	CurrentPlayer string        `json:"current_player"`
	Inversus      bool          `json:"inversus"`
	CardsObscured bool          `json:"cards_obscured"`
	NecroHearts   int           `json:"necro_hearts,omitempty"`
	XaelCooldown  int           `json:"xael_cooldown,omitempty"`
	Passes        int           `json:"consecutive_passes"`
	Players       []PlayerView  `json:"players"`
	Paths         [][]SpaceView `json:"paths"`
}

func cardViews(cards []*Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		cv := CardView{ID: c.ID, Kind: c.Kind.String()}
		if c.Kind == CardValue {
			cv.Value = c.Value
		} else {
			cv.Name = c.Name
		}
		out = append(out, cv)
	}
	return out
}

// View returns a snapshot of the match, or nil when none is in progress.
// Hand contents are always included for human seats and for hands forced
// open by Jogo Aberto; hiding the rest is the UI's concern.
func (e *Engine) View() *GameView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// viewLocked builds the snapshot handed to the presenter. Caller holds the
// engine lock.
func (e *Engine) viewLocked() *GameView {
	st := e.state
	if st == nil {
		return nil
	}
	view := &GameView{
		MatchID:       st.MatchID,
		Turn:          st.Turn,
		Phase:         st.Phase.String(),
		Mode:          st.Mode.String(),
		Battle:        string(st.Story),
		CurrentPlayer: st.CurrentPlayer,
		Inversus:      st.InversusMode,
		CardsObscured: st.CardsObscured,
		NecroHearts:   st.NecroHearts,
		XaelCooldown:  st.XaelCooldown,
		Passes:        e.seq.ConsecutivePasses(),
	}
	for _, id := range st.Order {
		p := st.Players[id]
		pv := PlayerView{
			ID:           p.ID,
			Name:         p.Name,
			Team:         p.Team,
			Human:        p.Human,
			Position:     p.Position,
			PathID:       p.PathID,
			Stars:        p.Stars,
			Eliminated:   p.Eliminated,
			LiveScore:    p.LiveScore,
			Revealed:     st.RevealedHands[p.ID],
			HandCount:    len(p.Hand),
			PlayedValue:  cardViews(p.PlayedValue),
			PlayedEffect: cardViews(p.PlayedEffect),
		}
		if p.Human || st.RevealedHands[p.ID] {
			pv.Hand = cardViews(p.Hand)
		}
		if s := p.Score.String(); s != "NONE" {
			pv.ScoreEffect = s
		}
		if m := p.Movement.String(); m != "NONE" {
			pv.MoveEffect = m
		}
		view.Players = append(view.Players, pv)
	}
	for _, path := range e.board.Paths {
		row := make([]SpaceView, len(path.Spaces))
		for i, sp := range path.Spaces {
			row[i] = SpaceView{Color: sp.Color.String(), Effect: sp.EffectName, Used: sp.Used}
		}
		view.Paths = append(view.Paths, row)
	}
	return view
}
