package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
)

const corridorLevel = `
@gloomver 1
@resolution 7x3
@level 1
!name Test Range
!enemies
:pistoller
:end
!map
#######
#^   A#
#######
!end
@end
`

const exitLevel = `
@gloomver 1
@resolution 5x3
@level 1
!name Walkout
!map
#####
#^ _#
#####
!end
@end
`

func firstEnemy(s *Simulation) *domain.Entity {
	var enemy *domain.Entity
	s.World.ForEachAlive(domain.EntityTypeEnemy, func(e *domain.Entity) bool {
		enemy = e
		return false
	})
	return enemy
}

func TestSimulation_InitialState(t *testing.T) {
	sim := newSim(t, corridorLevel, PolicyClearEnemies)

	player := sim.Player()
	if player == nil || !player.Alive() {
		t.Fatal("Player must spawn alive")
	}
	cx, cy := sim.World.Grid.CellOf(player.Pos)
	if cx != 1 || cy != 1 {
		t.Errorf("Player must spawn at (1,1), got (%d,%d)", cx, cy)
	}
	if sim.EnemiesAlive() != 1 {
		t.Errorf("Expected 1 enemy, got %d", sim.EnemiesAlive())
	}
	if sim.LevelName != "Test Range" {
		t.Errorf("Level name: got %q", sim.LevelName)
	}
	if ws := player.Combat.ActiveWeapon(); ws == nil || ws.Spec.Name != "Pistol" {
		t.Error("Player must start with a Pistol")
	}
}

func TestSimulation_FireTickSpawnsStationaryBullet(t *testing.T) {
	sim := newSim(t, corridorLevel, PolicyClearEnemies)
	player := sim.Player()
	start := player.Pos

	in := NoIntent()
	in.Aim = mgl64.Vec2{1, 0}
	in.Fire = true
	sim.Step(in)

	// The projectile spawns after the movement phase of its tick:
	// it must still sit exactly at the muzzle, not a step ahead.
	var bullet *domain.Entity
	sim.World.ForEachAlive(domain.EntityTypeProjectile, func(e *domain.Entity) bool {
		if e.Projectile.Friendly {
			bullet = e
			return false
		}
		return true
	})
	if bullet == nil {
		t.Fatal("Fire intent must spawn a projectile")
	}
	if bullet.Pos != start {
		t.Errorf("New bullet must not advance on its spawn tick. Got %v, want %v", bullet.Pos, start)
	}
}

func TestSimulation_PlayerKillsEnemy(t *testing.T) {
	sim := newSim(t, corridorLevel, PolicyClearEnemies)

	// Disarm and weaken the enemy so the duel is one-sided.
	enemy := firstEnemy(sim)
	enemy.Stats.HP = 10
	ws := enemy.Combat.ActiveWeapon()
	ws.InMagazine = 0
	ws.Reserve = 0

	in := NoIntent()
	in.Aim = mgl64.Vec2{1, 0}
	in.Fire = true

	for i := 0; i < 300 && !sim.GameOver; i++ {
		sim.Step(in)
	}

	if sim.EnemiesAlive() != 0 {
		t.Fatal("Enemy must be dead within 300 ticks")
	}
	if !sim.GameOver || !sim.Won {
		t.Errorf("Clearing the last level must win the game. GameOver=%v Won=%v", sim.GameOver, sim.Won)
	}
}

func TestSimulation_ExitPolicy(t *testing.T) {
	sim := newSim(t, exitLevel, PolicyExit)

	in := NoIntent()
	in.Move = mgl64.Vec2{1, 0}

	if sim.GameOver {
		t.Fatal("Game must not be over at spawn")
	}
	for i := 0; i < 60 && !sim.GameOver; i++ {
		sim.Step(in)
	}

	if !sim.GameOver || !sim.Won {
		t.Errorf("Reaching the exit must finish the run. GameOver=%v Won=%v", sim.GameOver, sim.Won)
	}
}

func TestSimulation_ClearPolicyIgnoresExit(t *testing.T) {
	sim := newSim(t, corridorLevel, PolicyClearEnemies)

	// Standing still with a live enemy: no completion.
	for i := 0; i < 5; i++ {
		sim.Step(NoIntent())
	}
	if sim.GameOver {
		t.Error("Level with a live enemy must not complete under the clear policy")
	}
}

func TestSimulation_GameOverOnDeath(t *testing.T) {
	sim := newSim(t, exitLevel, PolicyExit)

	sim.Player().Stats.ApplyDamage(1000, 100)
	sim.Step(NoIntent())

	if !sim.GameOver || sim.Won {
		t.Errorf("Player death must end the game as a loss. GameOver=%v Won=%v", sim.GameOver, sim.Won)
	}

	// Further steps are no-ops.
	tick := sim.World.Tick
	sim.Step(NoIntent())
	if sim.World.Tick != tick {
		t.Error("Steps after game over must not advance the world")
	}
}

func TestSimulation_AutoReloadDuringPlay(t *testing.T) {
	sim := newSim(t, exitLevel, PolicyExit)
	player := sim.Player()
	ws := player.Combat.ActiveWeapon()
	ws.InMagazine = 1

	totalBefore := ws.TotalAmmo()

	in := NoIntent()
	in.Aim = mgl64.Vec2{1, 0}
	in.Fire = true
	sim.Step(in)

	if ws.InMagazine != 0 {
		t.Fatalf("Last round must be spent. Got %d", ws.InMagazine)
	}
	if !ws.Reloading {
		t.Fatal("Empty magazine must start the auto reload")
	}

	for i := 0; i < ws.Spec.ReloadRateTicks+1; i++ {
		sim.Step(NoIntent())
	}
	if ws.Reloading {
		t.Fatal("Reload must be over")
	}
	if ws.TotalAmmo() != totalBefore-1 {
		t.Errorf("Ammo conservation broken. Got %d, want %d", ws.TotalAmmo(), totalBefore-1)
	}
}

func TestSimulation_WeaponSwitchIntent(t *testing.T) {
	sim := newSim(t, exitLevel, PolicyExit)
	player := sim.Player()
	player.Combat.Weapons = append(player.Combat.Weapons,
		domain.NewWeaponState(domain.WeaponByName("Shotgun"), 10))

	in := NoIntent()
	in.SwitchSlot = 1
	sim.Step(in)

	if ws := player.Combat.ActiveWeapon(); ws.Spec.Name != "Shotgun" {
		t.Errorf("Switch intent must change the active weapon. Got %s", ws.Spec.Name)
	}

	// Switching to a missing slot is a no-op, not a crash.
	in.SwitchSlot = 7
	sim.Step(in)
	if ws := player.Combat.ActiveWeapon(); ws.Spec.Name != "Shotgun" {
		t.Errorf("Bad slot must be ignored. Got %s", ws.Spec.Name)
	}
}

func TestSimulation_AutoSwitchWhenDry(t *testing.T) {
	sim := newSim(t, exitLevel, PolicyExit)
	player := sim.Player()
	player.Combat.Weapons = append(player.Combat.Weapons,
		domain.NewWeaponState(domain.WeaponByName("Shotgun"), 10))
	player.Combat.Active = 0

	pistol := player.Combat.Weapons[0]
	pistol.InMagazine = 0
	pistol.Reserve = 0

	sim.Step(NoIntent())

	if ws := player.Combat.ActiveWeapon(); ws.Spec.Name != "Shotgun" {
		t.Errorf("Dry weapon must auto switch to one with ammo. Got %s", ws.Spec.Name)
	}
}
