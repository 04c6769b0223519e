package engine

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"gloom-server/internal/domain"
	"gloom-server/internal/maploader"
	"gloom-server/internal/systems"
	"gloom-server/pkg/logger"
)

// Simulation - однопоточное игровое ядро. Каждый вызов Step продвигает
// мир ровно на один тик; порядок фаз внутри тика фиксирован:
//
//  1. ввод и движение (игрок, затем враги), двери, подбор предметов
//  2. полет снарядов и столкновения
//  3. новые выстрелы (снаряд не движется в тик создания,
//     поэтому стрелок не может попасть сам в себя)
//  4. таймеры оружия и статусных эффектов
//  5. пересчет видимости
//
// Отложенные удаления выполняются между фазами 4 и 5.
type Simulation struct {
	World *domain.World
	Vis   *systems.Visibility

	PlayerID domain.EntityID
	Cfg      Config
	Rng      *rand.Rand

	LevelIndex int
	LevelName  string
	GameOver   bool
	Won        bool

	levels *maploader.LevelSet
	player *domain.Entity
}

// NewSimulation создает симуляцию и загружает первый уровень набора.
func NewSimulation(set *maploader.LevelSet, cfg Config) (*Simulation, error) {
	s := &Simulation{
		Cfg:    cfg,
		Rng:    rand.New(rand.NewSource(cfg.Seed)),
		levels: set,
	}
	if err := s.loadLevel(0, nil); err != nil {
		return nil, err
	}
	return s, nil
}

// loadLevel собирает мир уровня idx. Оружие игрока переносится между
// уровнями (carried), карточки доступа и здоровье - нет.
func (s *Simulation) loadLevel(idx int, carried *domain.CombatComponent) error {
	grid, entities, name, err := s.levels.BuildLevel(idx, s.Cfg.CellSize)
	if err != nil {
		return fmt.Errorf("build level %d: %w", idx, err)
	}

	s.World = domain.NewWorld(grid)
	for _, e := range entities {
		s.World.Spawn(e)
	}

	combat := carried
	if combat == nil {
		combat = &domain.CombatComponent{
			Weapons: []*domain.WeaponState{
				domain.NewWeaponState(domain.WeaponByName("Pistol"), domain.PlayerStartAmmo),
			},
			BaseSpeed: domain.PlayerBaseSpeed,
			AimJitter: domain.PlayerAimJitter,
			Aim:       mgl64.Vec2{1, 0},
		}
	}
	combat.Keycards = make(domain.KeycardSet)

	s.player = &domain.Entity{
		Type: domain.EntityTypePlayer,
		Name: "Player",
		Pos:  grid.CellCenter(grid.Spawn.X, grid.Spawn.Y),
		Size: domain.PlayerSize,
		Stats: &domain.StatsComponent{
			HP:    domain.PlayerMaxHP,
			MaxHP: domain.PlayerMaxHP,
		},
		Combat:  combat,
		Effects: &domain.EffectsComponent{},
	}
	s.PlayerID = s.World.Spawn(s.player)

	s.Vis = systems.NewVisibility(grid)
	s.Vis.Compute(grid, s.PlayerID, s.player.Pos, s.Cfg.ViewRangePx)

	s.LevelIndex = idx
	s.LevelName = name

	logger.Log.WithFields(logrus.Fields{
		"component":   "simulation",
		"level_index": idx,
		"level_name":  name,
		"enemies":     s.World.CountAlive(domain.EntityTypeEnemy),
	}).Info("Level loaded.")

	return nil
}

// Player возвращает сущность игрока (в том числе мертвого).
func (s *Simulation) Player() *domain.Entity {
	return s.player
}

// EnemiesAlive возвращает количество живых врагов.
func (s *Simulation) EnemiesAlive() int {
	return s.World.CountAlive(domain.EntityTypeEnemy)
}

// Step продвигает симуляцию на один тик с данным вводом игрока.
// После GameOver вызовы - no-op.
func (s *Simulation) Step(in Intent) {
	if s.GameOver {
		return
	}
	s.World.Tick++
	player := s.player

	// Фаза 1: ввод игрока, намерения врагов, движение, двери, подбор.
	if player.Alive() {
		s.applyPlayerInput(player, in)
		systems.ProcessPickups(s.World, player)
	}

	var enemyFire []domain.EntityID
	s.World.ForEachAlive(domain.EntityTypeEnemy, func(e *domain.Entity) bool {
		intent := systems.ComputeEnemyIntent(s.World, e, player)
		if intent.Move.Len() > 0 {
			s.World.TryMove(e.ID, intent.Move)
		}
		if intent.Fire {
			e.Combat.Aim = intent.Aim
			enemyFire = append(enemyFire, e.ID)
		}
		return true
	})

	// Фаза 2: снаряды, спавненные в прошлые тики.
	systems.AdvanceProjectiles(s.World)

	// Фаза 3: новые выстрелы. Стрелок мог умереть в фазе 2 - проверяем.
	if player.Alive() && in.Fire {
		systems.TryFire(s.World, player, s.Rng)
	}
	for _, id := range enemyFire {
		if e := s.World.Get(id); e != nil && e.Alive() {
			systems.TryFire(s.World, e, s.Rng)
		}
	}

	// Фаза 4: таймеры оружия и эффектов.
	s.World.ForEachAlive("", func(e *domain.Entity) bool {
		if e.Combat != nil {
			for _, ws := range e.Combat.Weapons {
				ws.Tick()
			}
		}
		if e.Effects != nil && e.Effects.SpeedBoostTicks > 0 {
			e.Effects.SpeedBoostTicks--
		}
		return true
	})
	if player.Alive() {
		s.autoSwitchEmpty(player)
	}

	s.World.FlushDespawns()

	// Фаза 5: видимость (память Seen сохраняется и после смерти).
	if player.Alive() {
		s.Vis.Compute(s.World.Grid, s.PlayerID, player.Pos, s.Cfg.ViewRangePx)
	}

	if !player.Alive() {
		s.GameOver = true
		s.Won = false
		logger.Log.WithField("component", "simulation").Info("Player died. Game over.")
		return
	}
	if s.CompletionReached() {
		s.advanceLevel()
	}
}

func (s *Simulation) applyPlayerInput(player *domain.Entity, in Intent) {
	c := player.Combat

	if in.Aim.Len() > 0 {
		c.Aim = in.Aim.Normalize()
	}
	if in.SwitchSlot >= 0 {
		c.SwitchTo(in.SwitchSlot)
	}
	if in.Reload {
		if ws := c.ActiveWeapon(); ws != nil {
			ws.StartReload()
		}
	}

	if in.Move.Len() > 0 {
		dir := in.Move
		// Диагональ не должна быть быстрее осевого движения.
		if dir.Len() > 1 {
			dir = dir.Normalize()
		}
		speed := c.BaseSpeed * player.Effects.SpeedMultiplier()
		s.World.TryMove(player.ID, dir.Mul(speed))
	}
}

// autoSwitchEmpty переключает полностью сухое активное оружие на последнее
// подобранное, в котором еще есть патроны.
func (s *Simulation) autoSwitchEmpty(player *domain.Entity) {
	c := player.Combat
	ws := c.ActiveWeapon()
	if ws == nil || ws.TotalAmmo() > 0 {
		return
	}
	for slot := len(c.Weapons) - 1; slot >= 0; slot-- {
		if c.Weapons[slot].TotalAmmo() > 0 {
			c.SwitchTo(slot)
			return
		}
	}
}

// CompletionReached проверяет условие завершения уровня согласно политике.
// Уровень без ячейки выхода при политике exit засчитывается по зачистке.
func (s *Simulation) CompletionReached() bool {
	switch s.Cfg.Policy {
	case PolicyExit:
		if !s.World.Grid.HasExit {
			return s.EnemiesAlive() == 0
		}
		cx, cy := s.World.Grid.CellOf(s.player.Pos)
		return cx == s.World.Grid.Exit.X && cy == s.World.Grid.Exit.Y
	case PolicyClearEnemies:
		return s.EnemiesAlive() == 0
	}
	return false
}

func (s *Simulation) advanceLevel() {
	next := s.LevelIndex + 1
	if next >= len(s.levels.Levels) {
		s.GameOver = true
		s.Won = true
		logger.Log.WithField("component", "simulation").Info("All levels cleared. Victory.")
		return
	}
	if err := s.loadLevel(next, s.player.Combat); err != nil {
		// Битый уровень посреди набора: завершаем сессию победой по факту.
		logger.Log.WithError(err).Error("Failed to load next level.")
		s.GameOver = true
		s.Won = true
	}
}
