package engine

import (
	"gloom-server/internal/domain"
	"gloom-server/internal/systems"
	"gloom-server/pkg/api"
)

// BuildSnapshot собирает DTO состояния мира глазами игрока: тайлы
// отдаются только исследованные, сущности - только на видимых сейчас
// тайлах (сам игрок виден себе всегда). Сервер никогда не отправляет
// клиенту то, чего игрок не видел.
func BuildSnapshot(s *Simulation) *api.Snapshot {
	snap := &api.Snapshot{
		Type:       "UPDATE",
		Tick:       s.World.Tick,
		Level:      s.LevelName,
		LevelIndex: s.LevelIndex,
		Grid: &api.GridMeta{
			Width:    s.World.Grid.Width,
			Height:   s.World.Grid.Height,
			CellSize: s.World.Grid.CellSize,
		},
		GameOver: s.GameOver,
		Won:      s.Won,
	}

	snap.Tiles = buildTiles(s)
	snap.Entities = buildEntities(s)
	snap.Player = buildPlayerView(s.player)

	return snap
}

func buildTiles(s *Simulation) []api.TileView {
	g := s.World.Grid
	tiles := make([]api.TileView, 0, g.Width*g.Height/2)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			state := s.Vis.StateAt(s.PlayerID, x, y)
			if state == systems.Unseen {
				continue
			}

			cell := g.CellAt(x, y)
			tv := api.TileView{
				X:        x,
				Y:        y,
				Kind:     kindName(cell.Kind),
				Visible:  state == systems.Visible,
				Explored: true,
			}
			if cell.Door != nil {
				tv.DoorColor = cell.Door.Color.String()
				tv.DoorOpen = cell.Door.Open
			}
			tiles = append(tiles, tv)
		}
	}
	return tiles
}

func buildEntities(s *Simulation) []api.EntityView {
	var views []api.EntityView
	s.World.ForEachAlive("", func(e *domain.Entity) bool {
		if e.ID != s.PlayerID {
			cx, cy := s.World.Grid.CellOf(e.Pos)
			if s.Vis.StateAt(s.PlayerID, cx, cy) != systems.Visible {
				return true
			}
		}
		views = append(views, api.EntityView{
			ID:   uint64(e.ID),
			Type: e.Type,
			Name: e.Name,
			X:    e.Pos.X(),
			Y:    e.Pos.Y(),
			Size: e.Size,
		})
		return true
	})
	return views
}

func buildPlayerView(player *domain.Entity) *api.PlayerView {
	if player == nil {
		return nil
	}

	pv := &api.PlayerView{
		HP:    player.Stats.HP,
		MaxHP: player.Stats.MaxHP,
		Armor: player.Stats.Armor,
	}

	c := player.Combat
	if ws := c.ActiveWeapon(); ws != nil {
		pv.Weapon = ws.Spec.Name
		pv.Magazine = ws.InMagazine
		pv.Reserve = ws.Reserve
		pv.Reloading = ws.Reloading
	}
	for slot, ws := range c.Weapons {
		pv.Slots = append(pv.Slots, api.WeaponSlotView{
			Slot:      slot,
			Name:      ws.Spec.Name,
			Magazine:  ws.InMagazine,
			Reserve:   ws.Reserve,
			Active:    slot == c.Active,
			Reloading: ws.Reloading,
		})
	}
	for _, color := range []domain.DoorColor{domain.DoorBlue, domain.DoorRed, domain.DoorYellow} {
		if c.Keycards.Has(color) {
			pv.Keycards = append(pv.Keycards, color.String())
		}
	}
	return pv
}

func kindName(k domain.CellKind) string {
	switch k {
	case domain.CellWall:
		return "WALL"
	case domain.CellDoor:
		return "DOOR"
	}
	return "EMPTY"
}
