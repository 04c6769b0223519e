package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
)

func spawnBullet(w *domain.World, pos mgl64.Vec2, friendly bool, owner domain.EntityID, speed, rangeLeft float64) *domain.Entity {
	e := &domain.Entity{
		Type: domain.EntityTypeProjectile,
		Name: "bullet",
		Pos:  pos,
		Size: 3,
		Projectile: &domain.ProjectileComponent{
			Owner:     owner,
			Friendly:  friendly,
			Dir:       mgl64.Vec2{1, 0},
			Speed:     speed,
			RangeLeft: rangeLeft,
			Damage:    10,
			PiercePct: 50,
		},
	}
	w.Spawn(e)
	return e
}

func spawnTargetEnemy(w *domain.World, x, y int) *domain.Entity {
	e := &domain.Entity{
		Type:  domain.EntityTypeEnemy,
		Name:  "Target",
		Pos:   w.Grid.CellCenter(x, y),
		Size:  domain.EnemySize,
		Stats: &domain.StatsComponent{HP: 100, MaxHP: 100},
	}
	w.Spawn(e)
	return e
}

func TestProjectile_StopsAtWall(t *testing.T) {
	w := domain.NewWorld(gridFromRows([]string{"...#..."}))
	bullet := spawnBullet(w, w.Grid.CellCenter(0, 0), true, 0, 500, 1000)

	AdvanceProjectiles(w)

	if bullet.Alive() {
		t.Error("Bullet must despawn on wall impact")
	}
}

func TestProjectile_WallShieldsTarget(t *testing.T) {
	w := domain.NewWorld(gridFromRows([]string{"...#..."}))
	enemy := spawnTargetEnemy(w, 5, 0)
	bullet := spawnBullet(w, w.Grid.CellCenter(0, 0), true, 0, 500, 1000)

	AdvanceProjectiles(w)

	if enemy.Stats.HP != 100 {
		t.Errorf("Enemy behind wall must not be hit, HP %f", enemy.Stats.HP)
	}
	if bullet.Alive() {
		t.Error("Bullet must stop at the wall")
	}
}

func TestProjectile_HitsEnemy(t *testing.T) {
	w := domain.NewWorld(gridFromRows([]string{"......."}))
	enemy := spawnTargetEnemy(w, 4, 0)
	bullet := spawnBullet(w, w.Grid.CellCenter(0, 0), true, 0, 500, 1000)

	AdvanceProjectiles(w)

	if enemy.Stats.HP != 95 {
		t.Errorf("Enemy must take pierce damage. HP %f, want 95", enemy.Stats.HP)
	}
	if bullet.Alive() {
		t.Error("Bullet must despawn after a hit")
	}
}

func TestProjectile_FriendlyBulletIgnoresPlayer(t *testing.T) {
	w := domain.NewWorld(gridFromRows([]string{"......."}))
	player := &domain.Entity{
		Type:  domain.EntityTypePlayer,
		Name:  "Player",
		Pos:   w.Grid.CellCenter(4, 0),
		Size:  domain.PlayerSize,
		Stats: &domain.StatsComponent{HP: 100, MaxHP: 100},
	}
	w.Spawn(player)
	spawnBullet(w, w.Grid.CellCenter(0, 0), true, 0, 500, 1000)

	AdvanceProjectiles(w)

	if player.Stats.HP != 100 {
		t.Errorf("Player must be immune to friendly bullets, HP %f", player.Stats.HP)
	}
}

func TestProjectile_OwnerNeverHit(t *testing.T) {
	w := domain.NewWorld(gridFromRows([]string{"......."}))
	enemy := spawnTargetEnemy(w, 0, 0)
	// A player bullet starting inside its hypothetical owner.
	spawnBullet(w, enemy.Pos, true, enemy.ID, 500, 1000)

	AdvanceProjectiles(w)

	if enemy.Stats.HP != 100 {
		t.Errorf("Owner must never collide with its own bullet, HP %f", enemy.Stats.HP)
	}
}

func TestProjectile_RangeExpiry(t *testing.T) {
	w := domain.NewWorld(gridFromRows([]string{"........."}))
	bullet := spawnBullet(w, w.Grid.CellCenter(0, 0), true, 0, 10, 25)

	AdvanceProjectiles(w) // 10px, 15 left
	AdvanceProjectiles(w) // 10px, 5 left
	if !bullet.Alive() {
		t.Fatal("Bullet must still fly with range left")
	}

	startX := bullet.Pos.X()
	AdvanceProjectiles(w) // last 5px
	if bullet.Alive() {
		t.Error("Bullet must despawn when range is exhausted")
	}
	if got := bullet.Pos.X() - startX; got != 5 {
		t.Errorf("Last advance must be the remaining 5px, got %f", got)
	}
}

func TestProjectile_ClosestTargetWins(t *testing.T) {
	w := domain.NewWorld(gridFromRows([]string{"........."}))
	near := spawnTargetEnemy(w, 3, 0)
	far := spawnTargetEnemy(w, 6, 0)
	spawnBullet(w, w.Grid.CellCenter(0, 0), true, 0, 500, 1000)

	AdvanceProjectiles(w)

	if near.Stats.HP == 100 {
		t.Error("Nearest target must take the hit")
	}
	if far.Stats.HP != 100 {
		t.Error("Far target must be untouched")
	}
}
