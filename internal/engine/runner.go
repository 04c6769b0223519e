package engine

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/core"
	"gloom-server/internal/domain"
	"gloom-server/pkg/api"
	"gloom-server/pkg/logger"
)

// Runner крутит симуляцию с частотой domain.TickRate и рассылает снимок
// после каждого тика. Ввод приходит асинхронно через Submit; Runner хранит
// последнее состояние органов управления и применяет его каждый тик.
// Симуляция при этом остается однопоточной: Step зовется только отсюда.
type Runner struct {
	Sim *Simulation
	Hub *core.Broadcaster

	mu      sync.Mutex
	current Intent

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRunner(sim *Simulation, hub *core.Broadcaster) *Runner {
	return &Runner{
		Sim:     sim,
		Hub:     hub,
		current: NoIntent(),
		stop:    make(chan struct{}),
	}
}

// Submit сливает ввод клиента в текущее состояние органов управления.
// Move, Aim и Fire действуют, пока удерживаются; Reload и SwitchSlot
// запоминаются до ближайшего тика и сбрасываются после него.
func (r *Runner) Submit(msg api.IntentMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current.Move = mgl64.Vec2{msg.MoveX, msg.MoveY}
	r.current.Aim = mgl64.Vec2{msg.AimX, msg.AimY}
	r.current.Fire = msg.Fire

	if msg.Reload {
		r.current.Reload = true
	}
	if msg.SwitchSlot >= 0 {
		r.current.SwitchSlot = msg.SwitchSlot
	}
}

// Run блокирует до Stop или до конца игры.
func (r *Runner) Run() {
	ticker := time.NewTicker(time.Second / domain.TickRate)
	defer ticker.Stop()

	logger.Log.WithField("component", "runner").Info("Simulation loop started.")

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			in := r.current
			// Однократные действия потребляются тиком.
			r.current.Reload = false
			r.current.SwitchSlot = -1
			r.mu.Unlock()

			r.Sim.Step(in)
			r.Hub.Broadcast(BuildSnapshot(r.Sim))

			if r.Sim.GameOver {
				logger.Log.WithField("won", r.Sim.Won).Info("Simulation finished.")
				return
			}
		}
	}
}

func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}
