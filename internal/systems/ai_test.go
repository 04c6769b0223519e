package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
)

func newAIWorld(rows []string) (*domain.World, *domain.Entity, *domain.Entity) {
	w := domain.NewWorld(gridFromRows(rows))
	player := &domain.Entity{
		Type:  domain.EntityTypePlayer,
		Name:  "Player",
		Pos:   w.Grid.CellCenter(1, 1),
		Size:  domain.PlayerSize,
		Stats: &domain.StatsComponent{HP: 100, MaxHP: 100},
		Combat: &domain.CombatComponent{
			Weapons: []*domain.WeaponState{
				domain.NewWeaponState(domain.WeaponByName("Pistol"), 100),
			},
		},
	}
	w.Spawn(player)

	enemy := &domain.Entity{
		Type:  domain.EntityTypeEnemy,
		Name:  "Enemy",
		Pos:   w.Grid.CellCenter(5, 1),
		Size:  domain.EnemySize,
		Stats: &domain.StatsComponent{HP: 50, MaxHP: 50},
		Combat: &domain.CombatComponent{
			Weapons: []*domain.WeaponState{
				domain.NewWeaponState(domain.WeaponByName("Pistol"), 30),
			},
			BaseSpeed: 3,
		},
		AI: &domain.AIComponent{},
	}
	w.Spawn(enemy)
	return w, player, enemy
}

func TestEnemyIntent_PursuesAndFires(t *testing.T) {
	w, player, enemy := newAIWorld([]string{
		"#######",
		"#.....#",
		"#######",
	})

	intent := ComputeEnemyIntent(w, enemy, player)

	if !intent.Fire {
		t.Error("Enemy with LOS and ammo must fire")
	}
	if intent.Aim.X() >= 0 {
		t.Errorf("Aim must point at the player (left). Got %v", intent.Aim)
	}
	if intent.Move.X() >= 0 {
		t.Errorf("Enemy must close in on the player. Got %v", intent.Move)
	}
	if !enemy.AI.HasTarget {
		t.Error("Target must be remembered")
	}
}

func TestEnemyIntent_NoSightNoTarget(t *testing.T) {
	w, player, enemy := newAIWorld([]string{
		"#######",
		"#..#..#",
		"#######",
	})

	intent := ComputeEnemyIntent(w, enemy, player)

	if intent.Fire {
		t.Error("Enemy must not fire through a wall")
	}
	if intent.Move.Len() != 0 {
		t.Error("Enemy with no target must stand still")
	}
}

func TestEnemyIntent_PursuesLastKnownPosition(t *testing.T) {
	w, player, enemy := newAIWorld([]string{
		"########",
		"#......#",
		"#.#....#",
		"########",
	})

	// 1. Contact: the enemy locks on.
	ComputeEnemyIntent(w, enemy, player)
	if !enemy.AI.HasTarget {
		t.Fatal("Enemy must lock on while in LOS")
	}
	lastKnown := enemy.AI.Target

	// 2. Player hides behind the wall. The enemy keeps moving to
	// the remembered position, no fresh sighting is needed.
	w.SetPos(player, w.Grid.CellCenter(1, 2))
	intent := ComputeEnemyIntent(w, enemy, player)

	if intent.Fire {
		t.Error("Enemy must not fire without LOS")
	}
	if intent.Move.Len() == 0 {
		t.Error("Enemy must pursue the last known position")
	}
	if enemy.AI.Target != lastKnown {
		t.Error("Remembered position must not follow the hidden player")
	}
}

func TestEnemyIntent_ForgetsAfterTimeout(t *testing.T) {
	w, player, enemy := newAIWorld([]string{
		"########",
		"#......#",
		"#.#....#",
		"########",
	})

	ComputeEnemyIntent(w, enemy, player)
	w.SetPos(player, w.Grid.CellCenter(1, 2))

	for i := 0; i < domain.EnemyForgetTicks; i++ {
		ComputeEnemyIntent(w, enemy, player)
	}

	if enemy.AI.HasTarget {
		t.Error("Enemy must forget the target after the timeout")
	}
	if intent := ComputeEnemyIntent(w, enemy, player); intent.Move.Len() != 0 {
		t.Error("Enemy with a forgotten target must stand still")
	}
}

func TestEnemyIntent_RetreatsWithoutAmmo(t *testing.T) {
	w, player, enemy := newAIWorld([]string{
		"#########",
		"#.......#",
		"#########",
	})
	ws := enemy.Combat.ActiveWeapon()
	ws.InMagazine = 0
	ws.Reserve = 0

	intent := ComputeEnemyIntent(w, enemy, player)

	if intent.Fire {
		t.Error("Dry enemy must not fire")
	}
	if intent.Move.X() <= 0 {
		t.Errorf("Dry enemy in the player's weapon range must retreat. Got %v", intent.Move)
	}
}

func TestEnemyIntent_DeadPlayerIgnored(t *testing.T) {
	w, player, enemy := newAIWorld([]string{
		"#######",
		"#.....#",
		"#######",
	})
	player.Stats.IsDead = true

	intent := ComputeEnemyIntent(w, enemy, player)

	if intent.Fire || intent.Move != (mgl64.Vec2{}) {
		t.Error("Dead player must not attract the enemy")
	}
}
